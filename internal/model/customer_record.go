package model

// Answer values shared by the yes/no style fields.
const (
	Yes               = "Yes"
	No                = "No"
	NoPhoneService    = "No phone service"
	NoInternetService = "No internet service"
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"

	InternetDSL   = "DSL"
	InternetFiber = "Fiber optic"
	InternetNone  = "No"

	ContractMonthToMonth = "Month-to-month"
	ContractOneYear      = "One year"
	ContractTwoYear      = "Two year"

	PaymentElectronicCheck = "Electronic check"
	PaymentMailedCheck     = "Mailed check"
	PaymentBankTransfer    = "Bank transfer (automatic)"
	PaymentCreditCard      = "Credit card (automatic)"
)

// CustomerRecord is the full set of attributes the churn model scores.
// Every field is always populated; use DefaultCustomerRecord as a base.
type CustomerRecord struct {
	ID               int     `db:"id" json:"id,omitempty"`
	Gender           string  `db:"gender" json:"gender"`
	SeniorCitizen    int     `db:"senior_citizen" json:"senior_citizen"`
	Partner          string  `db:"partner" json:"partner"`
	Dependents       string  `db:"dependents" json:"dependents"`
	Tenure           int     `db:"tenure" json:"tenure"`
	PhoneService     string  `db:"phone_service" json:"phone_service"`
	MultipleLines    string  `db:"multiple_lines" json:"multiple_lines"`
	InternetService  string  `db:"internet_service" json:"internet_service"`
	OnlineSecurity   string  `db:"online_security" json:"online_security"`
	OnlineBackup     string  `db:"online_backup" json:"online_backup"`
	DeviceProtection string  `db:"device_protection" json:"device_protection"`
	TechSupport      string  `db:"tech_support" json:"tech_support"`
	StreamingTV      string  `db:"streaming_tv" json:"streaming_tv"`
	StreamingMovies  string  `db:"streaming_movies" json:"streaming_movies"`
	Contract         string  `db:"contract" json:"contract"`
	PaperlessBilling string  `db:"paperless_billing" json:"paperless_billing"`
	PaymentMethod    string  `db:"payment_method" json:"payment_method"`
	MonthlyCharges   float64 `db:"monthly_charges" json:"monthly_charges"`
	TotalCharges     float64 `db:"total_charges" json:"total_charges"`
}

// DefaultCustomerRecord returns the values a blank form starts with.
func DefaultCustomerRecord() CustomerRecord {
	return CustomerRecord{
		Gender:           GenderMale,
		SeniorCitizen:    0,
		Partner:          Yes,
		Dependents:       Yes,
		Tenure:           12,
		PhoneService:     Yes,
		MultipleLines:    NoPhoneService,
		InternetService:  InternetDSL,
		OnlineSecurity:   NoInternetService,
		OnlineBackup:     NoInternetService,
		DeviceProtection: NoInternetService,
		TechSupport:      NoInternetService,
		StreamingTV:      NoInternetService,
		StreamingMovies:  NoInternetService,
		Contract:         ContractMonthToMonth,
		PaperlessBilling: Yes,
		PaymentMethod:    PaymentElectronicCheck,
		MonthlyCharges:   50.0,
		TotalCharges:     600.0,
	}
}

// Features is a single model input row keyed by training column name.
type Features map[string]any

// Model column names, as used when the classifier was trained.
const (
	ColGender           = "gender"
	ColSeniorCitizen    = "SeniorCitizen"
	ColPartner          = "Partner"
	ColDependents       = "Dependents"
	ColTenure           = "tenure"
	ColPhoneService     = "PhoneService"
	ColMultipleLines    = "MultipleLines"
	ColInternetService  = "InternetService"
	ColOnlineSecurity   = "OnlineSecurity"
	ColOnlineBackup     = "OnlineBackup"
	ColDeviceProtection = "DeviceProtection"
	ColTechSupport      = "TechSupport"
	ColStreamingTV      = "StreamingTV"
	ColStreamingMovies  = "StreamingMovies"
	ColContract         = "Contract"
	ColPaperlessBilling = "PaperlessBilling"
	ColPaymentMethod    = "PaymentMethod"
	ColMonthlyCharges   = "MonthlyCharges"
	ColTotalCharges     = "TotalCharges"
)

// Columns lists the model columns in training order.
var Columns = []string{
	ColGender, ColSeniorCitizen, ColPartner, ColDependents, ColTenure,
	ColPhoneService, ColMultipleLines, ColInternetService, ColOnlineSecurity,
	ColOnlineBackup, ColDeviceProtection, ColTechSupport, ColStreamingTV,
	ColStreamingMovies, ColContract, ColPaperlessBilling, ColPaymentMethod,
	ColMonthlyCharges, ColTotalCharges,
}

// Features converts the record into the row shape the classifier expects.
func (c CustomerRecord) Features() Features {
	return Features{
		ColGender:           c.Gender,
		ColSeniorCitizen:    c.SeniorCitizen,
		ColPartner:          c.Partner,
		ColDependents:       c.Dependents,
		ColTenure:           c.Tenure,
		ColPhoneService:     c.PhoneService,
		ColMultipleLines:    c.MultipleLines,
		ColInternetService:  c.InternetService,
		ColOnlineSecurity:   c.OnlineSecurity,
		ColOnlineBackup:     c.OnlineBackup,
		ColDeviceProtection: c.DeviceProtection,
		ColTechSupport:      c.TechSupport,
		ColStreamingTV:      c.StreamingTV,
		ColStreamingMovies:  c.StreamingMovies,
		ColContract:         c.Contract,
		ColPaperlessBilling: c.PaperlessBilling,
		ColPaymentMethod:    c.PaymentMethod,
		ColMonthlyCharges:   c.MonthlyCharges,
		ColTotalCharges:     c.TotalCharges,
	}
}
