package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
	"github.com/jackc/pgx/v5"
)

const qInsertApplication = `
insert into civic_applications (id, user_id, service_id, kind, status, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $6)`

const qInsertPassportDetails = `
insert into civic_passport_details
	(application_id, first_name, last_name, date_of_birth, place_of_birth,
	 gender, nationality, phone_number, address, father_names, mother_names)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const qInsertNationalIDDetails = `
insert into civic_national_id_details
	(application_id, first_name, last_name, date_of_birth, place_of_birth,
	 gender, district, sector, father_names, mother_names)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const qInsertDriversLicenseDetails = `
insert into civic_drivers_license_details
	(application_id, first_name, last_name, date_of_birth, gender,
	 phone_number, address, license_category, existing_license_number)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// newApplication inserts the application row plus its detail row in one
// transaction. An application without its details must never exist.
func (s *DB) newApplication(ctx context.Context, name string, app entity.Application, insertDetails func(pgx.Tx) error) (err error) {
	ctx, span := s.startSpan(ctx, name)
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, qInsertApplication,
		app.ID, app.UserID, app.ServiceID, app.Kind, app.Status, app.CreatedAt); err != nil {
		return s.mapError(err)
	}

	if err = insertDetails(tx); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) NewPassportApplication(ctx context.Context, app entity.Application, det entity.PassportDetails) error {
	return s.newApplication(ctx, "NewPassportApplication", app, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, qInsertPassportDetails,
			app.ID, det.FirstName, det.LastName, det.DateOfBirth, det.PlaceOfBirth,
			det.Gender, det.Nationality, det.PhoneNumber, det.Address, det.FatherNames, det.MotherNames)
		return err
	})
}

func (s *DB) NewNationalIDApplication(ctx context.Context, app entity.Application, det entity.NationalIDDetails) error {
	return s.newApplication(ctx, "NewNationalIDApplication", app, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, qInsertNationalIDDetails,
			app.ID, det.FirstName, det.LastName, det.DateOfBirth, det.PlaceOfBirth,
			det.Gender, det.District, det.Sector, det.FatherNames, det.MotherNames)
		return err
	})
}

func (s *DB) NewDriversLicenseApplication(ctx context.Context, app entity.Application, det entity.DriversLicenseDetails) error {
	return s.newApplication(ctx, "NewDriversLicenseApplication", app, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, qInsertDriversLicenseDetails,
			app.ID, det.FirstName, det.LastName, det.DateOfBirth, det.Gender,
			det.PhoneNumber, det.Address, det.LicenseCategory, det.ExistingLicenseNumber)
		return err
	})
}

const qInsertPayment = `
insert into civic_payments
	(id, user_id, application_id, kind, amount, method, transaction_id, provider_ref, status, created_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const qSubmitApplication = `
update civic_applications set status = $1, submitted_at = $2, updated_at = now()
where id = $3 and status = $4`

// SubmitPayment records the payment and flips the application status in one
// transaction. The old status guard loses gracefully to a concurrent payment.
func (s *DB) SubmitPayment(ctx context.Context, in entity.SubmitPayment) (err error) {
	ctx, span := s.startSpan(ctx, "SubmitPayment")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	p := in.Payment
	if _, err = tx.Exec(ctx, qInsertPayment,
		p.ID, p.UserID, p.ApplicationID, p.Kind, p.Amount, p.Method,
		p.TransactionID, p.ProviderRef, p.Status, p.CreatedAt); err != nil {
		return s.mapError(err)
	}

	tag, err := tx.Exec(ctx, qSubmitApplication, in.NewStatus, in.SubmittedAt, p.ApplicationID, in.OldStatus)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		err = goerror.ErrConflict
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

const qReviewApplication = `
update civic_applications
set status = $1, rejection_reason = nullif($2, ''), approved_at = $3, updated_at = now()
where id = $4 and status = $5`

// ReviewApplication applies a status transition guarded by the status the
// reviewer saw.
func (s *DB) ReviewApplication(ctx context.Context, in entity.ReviewApplication) (err error) {
	ctx, span := s.startSpan(ctx, "ReviewApplication")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, qReviewApplication,
		in.NewStatus, in.RejectionReason, in.ApprovedAt, in.ApplicationID, in.OldStatus)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}

	return nil
}
