package checkout

import (
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Input is the shipping and contact data captured on the order.
type Input struct {
	Address string  `validate:"required,max=255"`
	City    string  `validate:"required,max=120"`
	Zip     string  `validate:"required,max=20"`
	Phone   string  `validate:"required,min=6,max=32"`
	Notes   *string `validate:"omitempty,max=1000"`
}

func (in Input) normalized() Input {
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Zip = strings.TrimSpace(in.Zip)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Notes != nil {
		notes := strings.TrimSpace(*in.Notes)
		if notes == "" {
			in.Notes = nil
		} else {
			in.Notes = &notes
		}
	}
	return in
}

func (in Input) shipping() types.ShippingInfo {
	return types.ShippingInfo{Address: in.Address, City: in.City, Zip: in.Zip}
}

func (in Input) validate() error {
	if err := validate.Struct(in); err != nil {
		fields := map[string]string{}
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping information").
			WithDetails(map[string]any{"fields": fields})
	}
	return nil
}
