// Package form collects the customer attributes an operator enters and turns
// them into a fully populated model.CustomerRecord.
package form

import "github.com/unclebandit/churn-predictor/internal/model"

const (
	SectionCustomer = "Customer Information"
	SectionServices = "Services & Billing Details"
)

const (
	KindChoice  = "choice"
	KindInteger = "integer"
	KindNumber  = "number"
)

// Field describes one input of the churn form.
type Field struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Section string   `json:"section"`
	Kind    string   `json:"kind"`
	Options []string `json:"options,omitempty"`
	Default any      `json:"default"`
	Min     *float64 `json:"min,omitempty"`
}

var (
	yesNo          = []string{model.Yes, model.No}
	internetAddOns = []string{model.NoInternetService, model.No, model.Yes}
	zero           = 0.0
)

var catalog = []Field{
	{Key: "gender", Label: "Gender", Section: SectionCustomer, Kind: KindChoice, Options: []string{model.GenderMale, model.GenderFemale}},
	{Key: "senior_citizen", Label: "Senior Citizen", Section: SectionCustomer, Kind: KindChoice, Options: []string{"0", "1"}},
	{Key: "partner", Label: "Partner", Section: SectionCustomer, Kind: KindChoice, Options: yesNo},
	{Key: "dependents", Label: "Dependents", Section: SectionCustomer, Kind: KindChoice, Options: yesNo},
	{Key: "tenure", Label: "Tenure (months)", Section: SectionCustomer, Kind: KindInteger, Min: &zero},
	{Key: "phone_service", Label: "Phone Service", Section: SectionCustomer, Kind: KindChoice, Options: yesNo},
	{Key: "multiple_lines", Label: "Multiple Lines", Section: SectionCustomer, Kind: KindChoice, Options: []string{model.NoPhoneService, model.No, model.Yes}},
	{Key: "internet_service", Label: "Internet Service", Section: SectionCustomer, Kind: KindChoice, Options: []string{model.InternetDSL, model.InternetFiber, model.InternetNone}},
	{Key: "online_security", Label: "Online Security", Section: SectionCustomer, Kind: KindChoice, Options: internetAddOns},
	{Key: "online_backup", Label: "Online Backup", Section: SectionCustomer, Kind: KindChoice, Options: internetAddOns},
	{Key: "device_protection", Label: "Device Protection", Section: SectionServices, Kind: KindChoice, Options: internetAddOns},
	{Key: "tech_support", Label: "Tech Support", Section: SectionServices, Kind: KindChoice, Options: internetAddOns},
	{Key: "streaming_tv", Label: "Streaming TV", Section: SectionServices, Kind: KindChoice, Options: internetAddOns},
	{Key: "streaming_movies", Label: "Streaming Movies", Section: SectionServices, Kind: KindChoice, Options: internetAddOns},
	{Key: "contract", Label: "Contract", Section: SectionServices, Kind: KindChoice, Options: []string{model.ContractMonthToMonth, model.ContractOneYear, model.ContractTwoYear}},
	{Key: "paperless_billing", Label: "Paperless Billing", Section: SectionServices, Kind: KindChoice, Options: yesNo},
	{Key: "payment_method", Label: "Payment Method", Section: SectionServices, Kind: KindChoice, Options: []string{model.PaymentElectronicCheck, model.PaymentMailedCheck, model.PaymentBankTransfer, model.PaymentCreditCard}},
	{Key: "monthly_charges", Label: "Monthly Charges ($)", Section: SectionServices, Kind: KindNumber, Min: &zero},
	{Key: "total_charges", Label: "Total Charges ($)", Section: SectionServices, Kind: KindNumber, Min: &zero},
}

// Fields returns the form layout in display order, with defaults filled in.
func Fields() []Field {
	defaults := values(model.DefaultCustomerRecord())
	out := make([]Field, len(catalog))
	for i, f := range catalog {
		f.Default = defaults[f.Key]
		out[i] = f
	}
	return out
}

// Lookup returns the catalog entry for key.
func Lookup(key string) (Field, bool) {
	for _, f := range Fields() {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// values flattens a record into form keys.
func values(rec model.CustomerRecord) map[string]any {
	return map[string]any{
		"gender":            rec.Gender,
		"senior_citizen":    rec.SeniorCitizen,
		"partner":           rec.Partner,
		"dependents":        rec.Dependents,
		"tenure":            rec.Tenure,
		"phone_service":     rec.PhoneService,
		"multiple_lines":    rec.MultipleLines,
		"internet_service":  rec.InternetService,
		"online_security":   rec.OnlineSecurity,
		"online_backup":     rec.OnlineBackup,
		"device_protection": rec.DeviceProtection,
		"tech_support":      rec.TechSupport,
		"streaming_tv":      rec.StreamingTV,
		"streaming_movies":  rec.StreamingMovies,
		"contract":          rec.Contract,
		"paperless_billing": rec.PaperlessBilling,
		"payment_method":    rec.PaymentMethod,
		"monthly_charges":   rec.MonthlyCharges,
		"total_charges":     rec.TotalCharges,
	}
}
