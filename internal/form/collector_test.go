package form_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/churn-predictor/internal/errors"
	"github.com/unclebandit/churn-predictor/internal/form"
	"github.com/unclebandit/churn-predictor/internal/model"
)

func strPtr(v string) *string     { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCollect_EmptyInputUsesDefaults(t *testing.T) {
	rec, err := form.Collect(form.Input{})

	require.NoError(t, err)
	assert.Equal(t, model.DefaultCustomerRecord(), rec)
}

func TestCollect_OverridesOnlyGivenFields(t *testing.T) {
	rec, err := form.Collect(form.Input{
		Tenure:          intPtr(0),
		Contract:        strPtr(model.ContractMonthToMonth),
		MonthlyCharges:  floatPtr(90),
		InternetService: strPtr(model.InternetFiber),
		MultipleLines:   strPtr(model.NoPhoneService),
		PaymentMethod:   strPtr(model.PaymentBankTransfer),
		SeniorCitizen:   intPtr(1),
	})

	require.NoError(t, err)
	assert.Equal(t, 0, rec.Tenure)
	assert.Equal(t, 90.0, rec.MonthlyCharges)
	assert.Equal(t, model.InternetFiber, rec.InternetService)
	assert.Equal(t, model.PaymentBankTransfer, rec.PaymentMethod)
	assert.Equal(t, 1, rec.SeniorCitizen)
	assert.Equal(t, 600.0, rec.TotalCharges)
	assert.Equal(t, model.GenderMale, rec.Gender)
}

func TestCollect_NoCrossFieldValidation(t *testing.T) {
	_, err := form.Collect(form.Input{MonthlyCharges: floatPtr(120), TotalCharges: floatPtr(10)})
	assert.NoError(t, err)
}

func TestCollect_RejectsOutOfDomainValues(t *testing.T) {
	cases := []struct {
		name  string
		in    form.Input
		field string
	}{
		{"gender", form.Input{Gender: strPtr("Other")}, "gender"},
		{"senior citizen", form.Input{SeniorCitizen: intPtr(2)}, "senior_citizen"},
		{"negative tenure", form.Input{Tenure: intPtr(-1)}, "tenure"},
		{"lowercase yes", form.Input{Partner: strPtr("yes")}, "partner"},
		{"multiple lines", form.Input{MultipleLines: strPtr("No internet service")}, "multiple_lines"},
		{"internet", form.Input{InternetService: strPtr("Cable")}, "internet_service"},
		{"streaming", form.Input{StreamingMovies: strPtr("")}, "streaming_movies"},
		{"contract", form.Input{Contract: strPtr("Three year")}, "contract"},
		{"payment", form.Input{PaymentMethod: strPtr("Bank transfer")}, "payment_method"},
		{"negative monthly", form.Input{MonthlyCharges: floatPtr(-0.01)}, "monthly_charges"},
		{"nan total", form.Input{TotalCharges: floatPtr(math.NaN())}, "total_charges"},
		{"inf total", form.Input{TotalCharges: floatPtr(math.Inf(1))}, "total_charges"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := form.Collect(tc.in)

			var invalid *appErrors.ErrInvalidFieldValue
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tc.field, invalid.Field)
		})
	}
}

func TestCollect_InvalidChoiceListsAllowedValues(t *testing.T) {
	_, err := form.Collect(form.Input{Contract: strPtr("Weekly")})

	var invalid *appErrors.ErrInvalidFieldValue
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{model.ContractMonthToMonth, model.ContractOneYear, model.ContractTwoYear}, invalid.Allowed)
	assert.Contains(t, err.Error(), "Month-to-month")
}

func TestCollect_AcceptsEveryCatalogOption(t *testing.T) {
	for _, f := range form.Fields() {
		if f.Kind != form.KindChoice || f.Key == "senior_citizen" {
			continue
		}
		for _, opt := range f.Options {
			rec := model.DefaultCustomerRecord()
			setChoice(&rec, f.Key, opt)
			assert.NoError(t, form.Validate(rec), "%s=%q", f.Key, opt)
		}
	}
}

func setChoice(rec *model.CustomerRecord, key, v string) {
	switch key {
	case "gender":
		rec.Gender = v
	case "partner":
		rec.Partner = v
	case "dependents":
		rec.Dependents = v
	case "phone_service":
		rec.PhoneService = v
	case "multiple_lines":
		rec.MultipleLines = v
	case "internet_service":
		rec.InternetService = v
	case "online_security":
		rec.OnlineSecurity = v
	case "online_backup":
		rec.OnlineBackup = v
	case "device_protection":
		rec.DeviceProtection = v
	case "tech_support":
		rec.TechSupport = v
	case "streaming_tv":
		rec.StreamingTV = v
	case "streaming_movies":
		rec.StreamingMovies = v
	case "contract":
		rec.Contract = v
	case "paperless_billing":
		rec.PaperlessBilling = v
	case "payment_method":
		rec.PaymentMethod = v
	}
}

func TestFields_Layout(t *testing.T) {
	fields := form.Fields()
	require.Len(t, fields, 19)

	assert.Equal(t, "gender", fields[0].Key)
	assert.Equal(t, "total_charges", fields[18].Key)
	assert.Equal(t, form.SectionCustomer, fields[9].Section)
	assert.Equal(t, form.SectionServices, fields[10].Section)

	tenure, ok := form.Lookup("tenure")
	require.True(t, ok)
	assert.Equal(t, 12, tenure.Default)
	require.NotNil(t, tenure.Min)
	assert.Equal(t, 0.0, *tenure.Min)

	_, ok = form.Lookup("customer_id")
	assert.False(t, ok)
}
