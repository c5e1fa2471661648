package ledger

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"LotusLedger/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ClientInput struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	GSTNo   string `json:"gst_no"`
	PANNo   string `json:"pan_no"`
	Remarks string `json:"remarks"`
}

type BillInput struct {
	BillNo      string          `json:"bill_no" validate:"required"`
	BillDate    string          `json:"bill_date" validate:"required"`
	ClientID    int64           `json:"client_id" validate:"gt=0"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Description string          `json:"description"`
	Remarks     string          `json:"remarks"`
	Subject     string          `json:"subject"`
}

type ReceiptInput struct {
	ReceiptRef  string          `json:"receipt_ref"`
	ReceiptDate string          `json:"receipt_date" validate:"required"`
	ClientID    int64           `json:"client_id" validate:"gt=0"`
	BillNo      string          `json:"bill_no" validate:"required"`
	TDSAmt      decimal.Decimal `json:"tds_amt" validate:"gte=0"`
	PaidAmount  decimal.Decimal `json:"paid_amount" validate:"gte=0"`
	UTRDetails  string          `json:"utr_details"`
	Mode        string          `json:"mode"`
	Remarks     string          `json:"remarks"`
}

func (in *ClientInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.GSTNo = strings.TrimSpace(in.GSTNo)
	in.PANNo = strings.TrimSpace(in.PANNo)
	in.Remarks = strings.TrimSpace(in.Remarks)
}

func (in *BillInput) normalize() {
	in.BillNo = strings.TrimSpace(in.BillNo)
	in.BillDate = strings.TrimSpace(in.BillDate)
	in.Description = strings.TrimSpace(in.Description)
	in.Remarks = strings.TrimSpace(in.Remarks)
	in.Subject = strings.TrimSpace(in.Subject)
}

func (in *ReceiptInput) normalize() {
	in.ReceiptRef = strings.TrimSpace(in.ReceiptRef)
	in.ReceiptDate = strings.TrimSpace(in.ReceiptDate)
	in.BillNo = strings.TrimSpace(in.BillNo)
	in.UTRDetails = strings.TrimSpace(in.UTRDetails)
	in.Mode = strings.TrimSpace(in.Mode)
	in.Remarks = strings.TrimSpace(in.Remarks)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// check runs struct validation and folds the field errors into one
// ValidationError.
func (s *Service) check(what string, in interface{}) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "gt":
			if fe.Kind() == reflect.Int64 {
				parts = append(parts, fe.Field()+" is required")
				continue
			}
			parts = append(parts, fe.Field()+" must be positive")
		case "gte":
			parts = append(parts, fe.Field()+" cannot be negative")
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return models.Validationf("invalid %s: %s", what, strings.Join(parts, ", "))
}
