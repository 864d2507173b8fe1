package postgres

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"

	"github.com/terpmatch/terpmatch/model"
	"github.com/terpmatch/terpmatch/store"
)

func TestPostgresStore_Put(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock)

	strain := &model.StrainData{Name: "Blue Dream", Type: model.TypeHybrid, THCMax: 24}
	data, _ := json.Marshal(strain)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO strains")).
		WithArgs("blue dream", data).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = s.Put(context.Background(), strain)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock)

	strain := &model.StrainData{Name: "Gelato", Type: model.TypeHybrid}
	data, _ := json.Marshal(strain)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM strains WHERE name = $1")).
		WithArgs("gelato").
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(data))

	loaded, err := s.Get(context.Background(), " Gelato ")
	assert.NoError(t, err)
	assert.Equal(t, "Gelato", loaded.Name)
	assert.Equal(t, model.TypeHybrid, loaded.Type)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM strains WHERE name = $1")).
		WithArgs("unknown").
		WillReturnRows(pgxmock.NewRows([]string{"data"}))

	_, err = s.Get(context.Background(), "unknown")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresStore_Preferences(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO preferences")).
		WithArgs("blue dream", true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	assert.NoError(t, s.Like(context.Background(), "Blue Dream"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM preferences WHERE liked = $1")).
		WithArgs(true).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("blue dream"))

	liked, err := s.Liked(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"blue dream"}, liked)

	assert.NoError(t, mock.ExpectationsWereMet())
}
