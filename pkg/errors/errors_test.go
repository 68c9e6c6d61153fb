package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeValidation, "total must be non-negative")

	assert.Equal(t, CodeValidation, err.Code())
	assert.Equal(t, "total must be non-negative", err.Message())
	assert.Equal(t, "VALIDATION_ERROR: total must be non-negative", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeDependency, cause, "load affiliate link")

	require.NotNil(t, err)
	assert.Equal(t, CodeDependency, err.Code())
	assert.ErrorIs(t, err, cause)
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeInternal, nil, "boom")
	assert.Nil(t, err.Unwrap())
	assert.Equal(t, CodeInternal, err.Code())
}

func TestAsFindsTypedErrorThroughChain(t *testing.T) {
	inner := New(CodeNotFound, "order not found")
	wrapped := fmt.Errorf("handler: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())

	assert.Nil(t, As(errors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOT_A_CODE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)

	assert.Equal(t, http.StatusUnprocessableEntity, MetadataFor(CodeStateConflict).HTTPStatus)
	assert.Equal(t, http.StatusConflict, MetadataFor(CodeIdempotency).HTTPStatus)
}

func TestDumpCollectsChain(t *testing.T) {
	cause := errors.New("root")
	err := Wrap(CodeDependency, cause, "outer")

	dump := Dump(err)
	assert.Equal(t, CodeDependency, dump.Code)
	assert.Len(t, dump.Chain, 2)
	assert.Contains(t, dump.TopMessage, "outer")
}

func TestDumpExtractsPostgresDiagnostics(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23502",
		Message:        "null value in column violates not-null constraint",
		Detail:         "Failing row contains (...).",
		TableName:      "orders",
		ColumnName:     "billing_email",
		ConstraintName: "orders_billing_email_check",
	}
	err := Wrap(CodeInternal, fmt.Errorf("creating order: %w", pgErr), "checkout")

	dump := Dump(err)
	assert.Equal(t, "23502", dump.PGCode)
	assert.Equal(t, "orders", dump.PGTable)
	assert.Equal(t, "billing_email", dump.PGColumn)
	assert.Equal(t, "orders_billing_email_check", dump.PGConstraint)
	assert.Contains(t, dump.PGMessage, "not-null")
	assert.NotEmpty(t, dump.PGDetail)
}
