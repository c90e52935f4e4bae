package handler

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"attendance-report/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportArgs(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	id, year, month, err := parseReportArgs("7 2024 2", now)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 2, month)

	id, year, month, err = parseReportArgs(" 3 ", now)
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 2, month)

	_, year, month, err = parseReportArgs("3", time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2023, year)
	assert.Equal(t, 12, month)

	for _, bad := range []string{"", "x", "0", "3 2024", "3 2024 13", "3 24 2", "3 año 2", "3 2024 feb"} {
		_, _, _, err := parseReportArgs(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestReportErrorText(t *testing.T) {
	noEmployees := fmt.Errorf("wrapped: %w", &service.NoActiveEmployeesError{Company: "Acme"})
	assert.Equal(t, "⚠️ No se encontraron empleados activos en la compañía Acme.", reportErrorText(noEmployees))
	assert.True(t, isUserError(noEmployees))

	assert.Equal(t, "❌ Empresa no encontrada.", reportErrorText(service.ErrCompanyNotFound))
	assert.True(t, isUserError(service.ErrCompanyNotFound))

	other := errors.New("boom")
	assert.Equal(t, "❌ Error al generar el informe.", reportErrorText(other))
	assert.False(t, isUserError(other))
}
