package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/medicine"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/stocklog"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

var medicineColumns = []string{
	"id", "created_at", "updated_at", "name", "category", "quantity",
	"min_stock_level", "expiry_date", "price", "supplier", "batch_number",
}

func medicineRow(rows *sqlmock.Rows, id uuid.UUID, qty int) *sqlmock.Rows {
	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(id.String(), ts, ts, "Amoxicillin 500mg", "Antibiotics", qty,
		30, time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC), 12.5, "MedSupply Co.", "AMX-2027-01")
}

func TestMedicineRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMedicineRepository(db, metrics.NewCollector("test", prometheus.NewRegistry()))
	id := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "pharmacy"."medicines"`).
		WillReturnRows(medicineRow(sqlmock.NewRows(medicineColumns), id, 150))

	m, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, 150, m.Quantity)
	assert.Equal(t, medicine.CategoryAntibiotics, m.Category)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicineRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMedicineRepository(db, nil)

	mock.ExpectQuery(`SELECT (.+) FROM "pharmacy"."medicines"`).
		WillReturnRows(sqlmock.NewRows(medicineColumns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, medicine.ErrMedicineNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicineRepository_Delete_UnknownID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMedicineRepository(db, nil)

	mock.ExpectExec(`DELETE FROM "pharmacy"."medicines"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, medicine.ErrMedicineNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicineRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMedicineRepository(db, nil)

	mock.ExpectExec(`DELETE FROM "pharmacy"."medicines"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), uuid.New()))
	require.NoError(t, mock.ExpectationsWereMet())
}

// dispense removes qty and describes it as a prescription filled by actor.
func dispense(qty int, actor string) medicine.Mutation {
	return func(m *medicine.Medicine) (*stocklog.Entry, error) {
		prev, err := m.Apply(-qty)
		if err != nil {
			return nil, err
		}
		return stocklog.NewEntry(stocklog.Change{
			Action:          stocklog.ActionPrescriptionDispensed,
			MedicineName:    m.Name,
			PreviousStock:   prev,
			NewStock:        m.Quantity,
			PerformedBy:     actor,
			PrescriptionRef: "RX-1042",
		}, time.Now()), nil
	}
}

func TestMedicineRepository_List_OrdersByCreationThenID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMedicineRepository(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "pharmacy"."medicines" ORDER BY created_at ASC,\s*id ASC`).
		WillReturnRows(medicineRow(sqlmock.NewRows(medicineColumns), uuid.New(), 10))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicineRepository_MutateSavesWithLogEntry(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMedicineRepository(db, nil)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "pharmacy"."medicines" (.+) FOR UPDATE`).
		WillReturnRows(medicineRow(sqlmock.NewRows(medicineColumns), id, 40))
	mock.ExpectExec(`UPDATE "pharmacy"."medicines"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "pharmacy"."stock_logs" (.+) RETURNING "seq"`).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(1))
	mock.ExpectCommit()

	m, err := repo.Mutate(context.Background(), id, dispense(10, "John Smith"))
	require.NoError(t, err)
	assert.Equal(t, 30, m.Quantity)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicineRepository_MutateRollsBackOnError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMedicineRepository(db, nil)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(medicineRow(sqlmock.NewRows(medicineColumns), id, 5))
	mock.ExpectRollback()

	_, err := repo.Mutate(context.Background(), id, dispense(10, "John Smith"))
	assert.ErrorIs(t, err, medicine.ErrInsufficientStock)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicineRepository_MutateRejectsInvalidEntryBeforeWriting(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMedicineRepository(db, nil)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(medicineRow(sqlmock.NewRows(medicineColumns), id, 40))
	mock.ExpectRollback()

	_, err := repo.Mutate(context.Background(), id, dispense(10, "   "))
	assert.ErrorIs(t, err, stocklog.ErrMissingActor)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicineRepository_MutateRollsBackWhenLogInsertFails(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMedicineRepository(db, nil)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(medicineRow(sqlmock.NewRows(medicineColumns), id, 40))
	mock.ExpectExec(`UPDATE "pharmacy"."medicines"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "pharmacy"."stock_logs"`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.Mutate(context.Background(), id, dispense(10, "John Smith"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting stock log entry")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicineRepository_CreateRollsBackWhenLogInsertFails(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMedicineRepository(db, nil)
	m := &medicine.Medicine{
		ID:            uuid.New(),
		Name:          "Amoxicillin 500mg",
		Category:      medicine.CategoryAntibiotics,
		Quantity:      150,
		MinStockLevel: 50,
		ExpiryDate:    time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC),
		Price:         12.5,
	}
	opening := stocklog.NewEntry(stocklog.Change{
		Action:       stocklog.ActionMedicineAdded,
		MedicineName: m.Name,
		NewStock:     150,
		PerformedBy:  "John Smith",
	}, time.Now())

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "pharmacy"."medicines"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "pharmacy"."stock_logs"`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), m, opening)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting stock log entry")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStockLogRepository_AppendValidatesBeforeInsert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStockLogRepository(db, nil)

	bad := &stocklog.Entry{
		ID:            uuid.New(),
		Timestamp:     time.Now(),
		Action:        stocklog.ActionStockUpdated,
		MedicineName:  "Vitamin D3",
		Quantity:      5,
		PreviousStock: 10,
		NewStock:      20,
		PerformedBy:   "John Smith",
	}
	err := repo.Append(context.Background(), bad)
	assert.ErrorIs(t, err, stocklog.ErrStockMismatch)

	// Nothing reached the database.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStockLogRepository_Append(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStockLogRepository(db, nil)

	mock.ExpectQuery(`INSERT INTO "pharmacy"."stock_logs" (.+) RETURNING "seq"`).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(7))

	e := stocklog.NewEntry(stocklog.Change{
		Action:        stocklog.ActionStockAdded,
		MedicineName:  "Vitamin D3",
		PreviousStock: 10,
		NewStock:      60,
		PerformedBy:   "John Smith",
	}, time.Now())
	require.NoError(t, repo.Append(context.Background(), e))
	assert.Equal(t, int64(7), e.Seq)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStockLogRepository_ListOrdersByAppendSequence(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStockLogRepository(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "pharmacy"."stock_logs" ORDER BY seq ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "medicine_name", "seq"}).
			AddRow(uuid.New().String(), "Salbutamol", 1).
			AddRow(uuid.New().String(), "Ibuprofen", 2))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Salbutamol", list[0].MedicineName)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStockLogRepository_ListError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStockLogRepository(db, nil)

	mock.ExpectQuery(`SELECT (.+) FROM "pharmacy"."stock_logs"`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing stock log")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db, nil)

	mock.ExpectQuery(`SELECT (.+) FROM "clinical"."patients"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
