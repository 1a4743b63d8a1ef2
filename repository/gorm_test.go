package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return db, mock
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func mockBooking(expertID uuid.UUID) *models.Booking {
	start := time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC)
	return &models.Booking{
		FarmerID:           uuid.New(),
		ExpertID:           expertID,
		BookingDate:        models.DateOf(start),
		BookingTime:        "10:00",
		DurationMinutes:    models.Duration60,
		TotalPrice:         50,
		FarmerName:         "Amina Bello",
		FarmerEmail:        "amina@example.com",
		FarmerPhone:        "+2348012345678",
		ConsultationReason: "Soil test",
		Status:             models.BookingPending,
		StartsAt:           start,
		EndsAt:             start.Add(time.Hour),
	}
}

func TestGormBookings_CreateIfAvailableRejectsOverlap(t *testing.T) {
	db, mock := newMockDB(t)
	expertID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "experts".*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(expertID.String()))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := NewGormBookings(db).CreateIfAvailable(context.Background(), mockBooking(expertID))
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormBookings_CreateIfAvailableMapsUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	expertID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "experts".*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(expertID.String()))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "bookings"`).WillReturnError(uniqueViolation())
	mock.ExpectRollback()

	err := NewGormBookings(db).CreateIfAvailable(context.Background(), mockBooking(expertID))
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormBookings_CreateIfAvailableUnknownExpert(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "experts".*FOR UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := NewGormBookings(db).CreateIfAvailable(context.Background(), mockBooking(uuid.New()))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormBookings_UpdateStatusIsConditional(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormBookings(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings" SET .*WHERE .*status = `).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	if err := repo.UpdateStatus(context.Background(), id, models.BookingPending, models.BookingConfirmed); !errors.Is(err, ErrStatusChanged) {
		t.Fatalf("expected ErrStatusChanged when no row matched, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings" SET .*WHERE .*status = `).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	if err := repo.UpdateStatus(context.Background(), id, models.BookingPending, models.BookingConfirmed); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormExperts_UpsertInsertsNewApplication(t *testing.T) {
	db, mock := newMockDB(t)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "experts".*FOR UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "experts"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	var sawExisting bool
	stored, err := NewGormExperts(db).UpsertByUserID(context.Background(), userID, func(e *models.Expert, exists bool) error {
		sawExisting = exists
		e.FullName = "Dr. Adebayo Ogundimu"
		e.Status = models.ExpertPending
		return nil
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if sawExisting || stored.UserID != userID || stored.FullName != "Dr. Adebayo Ogundimu" {
		t.Fatalf("unexpected stored application %+v (exists=%v)", stored, sawExisting)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormExperts_UpsertUpdatesExistingRow(t *testing.T) {
	db, mock := newMockDB(t)
	userID, expertID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "experts".*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "full_name", "status"}).
			AddRow(expertID.String(), userID.String(), "Old Name", string(models.ExpertRejected)))
	mock.ExpectExec(`UPDATE "experts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	stored, err := NewGormExperts(db).UpsertByUserID(context.Background(), userID, func(e *models.Expert, exists bool) error {
		if !exists {
			return errors.New("expected the stored row")
		}
		e.FullName = "New Name"
		e.Status = models.ExpertPending
		return nil
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if stored.ID != expertID || stored.FullName != "New Name" || stored.Status != models.ExpertPending {
		t.Fatalf("unexpected stored application %+v", stored)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormExperts_UpsertMapsUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "experts".*FOR UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "experts"`).WillReturnError(uniqueViolation())
	mock.ExpectRollback()

	_, err := NewGormExperts(db).UpsertByUserID(context.Background(), uuid.New(), func(e *models.Expert, exists bool) error {
		e.FullName = "Racing Applicant"
		return nil
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormExperts_UpdateStatusReportsLostRace(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "experts" SET .*WHERE .*status = `).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "experts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(id.String(), string(models.ExpertApproved)))

	_, err := NewGormExperts(db).UpdateStatus(context.Background(), id, models.ExpertPending, models.ExpertRejected)
	if !errors.Is(err, ErrStatusChanged) {
		t.Fatalf("expected ErrStatusChanged, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
