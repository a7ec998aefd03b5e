package repository

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/unclebandit/churn-predictor/internal/errors"
	"github.com/unclebandit/churn-predictor/internal/model"
)

// CustomerRepositoryInterface defines methods used by service
type CustomerRepositoryInterface interface {
	GetByID(ctx context.Context, id int) (*model.CustomerRecord, error)
}

// CustomerRepository reads stored telco customers. It never writes.
type CustomerRepository struct {
	DB *sql.DB
}

const selectCustomer = `
        SELECT id, gender, senior_citizen, partner, dependents, tenure,
               phone_service, multiple_lines, internet_service, online_security,
               online_backup, device_protection, tech_support, streaming_tv,
               streaming_movies, contract, paperless_billing, payment_method,
               monthly_charges, total_charges
        FROM telco_customers
        WHERE id = $1
    `

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id int) (*model.CustomerRecord, error) {
	var c model.CustomerRecord
	err := r.DB.QueryRowContext(ctx, selectCustomer, id).Scan(
		&c.ID, &c.Gender, &c.SeniorCitizen, &c.Partner, &c.Dependents, &c.Tenure,
		&c.PhoneService, &c.MultipleLines, &c.InternetService, &c.OnlineSecurity,
		&c.OnlineBackup, &c.DeviceProtection, &c.TechSupport, &c.StreamingTV,
		&c.StreamingMovies, &c.Contract, &c.PaperlessBilling, &c.PaymentMethod,
		&c.MonthlyCharges, &c.TotalCharges,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCustomerNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}
