package form

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/churn-predictor/internal/errors"
	"github.com/unclebandit/churn-predictor/internal/model"
)

// Input holds whatever the operator submitted. A nil field falls back to the
// form default.
type Input struct {
	Gender           *string  `json:"gender,omitempty"`
	SeniorCitizen    *int     `json:"senior_citizen,omitempty"`
	Partner          *string  `json:"partner,omitempty"`
	Dependents       *string  `json:"dependents,omitempty"`
	Tenure           *int     `json:"tenure,omitempty"`
	PhoneService     *string  `json:"phone_service,omitempty"`
	MultipleLines    *string  `json:"multiple_lines,omitempty"`
	InternetService  *string  `json:"internet_service,omitempty"`
	OnlineSecurity   *string  `json:"online_security,omitempty"`
	OnlineBackup     *string  `json:"online_backup,omitempty"`
	DeviceProtection *string  `json:"device_protection,omitempty"`
	TechSupport      *string  `json:"tech_support,omitempty"`
	StreamingTV      *string  `json:"streaming_tv,omitempty"`
	StreamingMovies  *string  `json:"streaming_movies,omitempty"`
	Contract         *string  `json:"contract,omitempty"`
	PaperlessBilling *string  `json:"paperless_billing,omitempty"`
	PaymentMethod    *string  `json:"payment_method,omitempty"`
	MonthlyCharges   *float64 `json:"monthly_charges,omitempty"`
	TotalCharges     *float64 `json:"total_charges,omitempty"`
}

var validate = newValidator()

// rules maps form keys to validator tags derived from the catalog.
var rules = buildRules()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Float64 && fl.Field().Kind() != reflect.Float32 {
			return true
		}
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

func buildRules() map[string]string {
	out := make(map[string]string, len(catalog))
	for _, f := range catalog {
		var tags []string
		if len(f.Options) > 0 {
			quoted := make([]string, len(f.Options))
			for i, o := range f.Options {
				if strings.ContainsRune(o, ' ') {
					o = "'" + o + "'"
				}
				quoted[i] = o
			}
			tags = append(tags, "oneof="+strings.Join(quoted, " "))
		}
		if f.Min != nil {
			tags = append(tags, "min="+strconv.FormatFloat(*f.Min, 'f', -1, 64))
		}
		if f.Kind == KindNumber {
			tags = append(tags, "finite")
		}
		out[f.Key] = strings.Join(tags, ",")
	}
	return out
}

// Collect applies defaults for every unset field and validates the result.
// Cross-field consistency (e.g. total below monthly charges) is not checked.
func Collect(in Input) (model.CustomerRecord, error) {
	rec := model.DefaultCustomerRecord()

	setString(&rec.Gender, in.Gender)
	if in.SeniorCitizen != nil {
		rec.SeniorCitizen = *in.SeniorCitizen
	}
	setString(&rec.Partner, in.Partner)
	setString(&rec.Dependents, in.Dependents)
	if in.Tenure != nil {
		rec.Tenure = *in.Tenure
	}
	setString(&rec.PhoneService, in.PhoneService)
	setString(&rec.MultipleLines, in.MultipleLines)
	setString(&rec.InternetService, in.InternetService)
	setString(&rec.OnlineSecurity, in.OnlineSecurity)
	setString(&rec.OnlineBackup, in.OnlineBackup)
	setString(&rec.DeviceProtection, in.DeviceProtection)
	setString(&rec.TechSupport, in.TechSupport)
	setString(&rec.StreamingTV, in.StreamingTV)
	setString(&rec.StreamingMovies, in.StreamingMovies)
	setString(&rec.Contract, in.Contract)
	setString(&rec.PaperlessBilling, in.PaperlessBilling)
	setString(&rec.PaymentMethod, in.PaymentMethod)
	if in.MonthlyCharges != nil {
		rec.MonthlyCharges = *in.MonthlyCharges
	}
	if in.TotalCharges != nil {
		rec.TotalCharges = *in.TotalCharges
	}

	if err := Validate(rec); err != nil {
		return model.CustomerRecord{}, err
	}
	return rec, nil
}

// Validate checks every field of rec against its domain, in form order.
func Validate(rec model.CustomerRecord) error {
	vals := values(rec)
	for _, f := range catalog {
		v := vals[f.Key]
		if err := validate.Var(v, rules[f.Key]); err != nil {
			if len(f.Options) > 0 {
				return appErrors.NewInvalidFieldValue(f.Key, v, f.Options...)
			}
			return appErrors.NewFieldOutOfRange(f.Key, v, rangeReason(f))
		}
	}
	return nil
}

func rangeReason(f Field) string {
	if f.Min != nil {
		return "must be a finite number >= " + strconv.FormatFloat(*f.Min, 'f', -1, 64)
	}
	return "must be a finite number"
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
