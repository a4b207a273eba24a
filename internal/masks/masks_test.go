package masks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCPFCNPJ(t *testing.T) {
	assert.Equal(t, "123.456.789-01", CPFCNPJ("12345678901"))
	assert.Equal(t, "123.456.789-01", CPFCNPJ("123.456.789-01"))
	assert.Equal(t, "12.345.678/9012-34", CPFCNPJ("12345678901234"))
	// partial input keeps what is typed so far
	assert.Equal(t, "123.4", CPFCNPJ("1234"))
	assert.Equal(t, "123", CPFCNPJ("123"))
	assert.Equal(t, "", CPFCNPJ(""))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "(11) 99999-0000", Phone("11999990000"))
	assert.Equal(t, "(11) 99999-0000", Phone("(11) 99999-0000"))
	assert.Equal(t, "(11) 9", Phone("119"))
	assert.Equal(t, "11", Phone("11"))
}

func TestCEP(t *testing.T) {
	assert.Equal(t, "01310-100", CEP("01310100"))
	assert.Equal(t, "01310-100", CEP("01310-100"))
	assert.Equal(t, "01310", CEP("01310"))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "31/12/1990", Date("31121990"))
	assert.Equal(t, "31/12", Date("3112"))
	assert.Equal(t, "31/1", Date("311"))
}

func TestDisplayCPF(t *testing.T) {
	assert.Equal(t, "123.***.***-01", DisplayCPF("12345678901"))
	assert.Equal(t, "123.***.***-01", DisplayCPF("123.456.789-01"))
	// non-CPF lengths pass through as digits
	assert.Equal(t, "12345678901234", DisplayCPF("12.345.678/9012-34"))
}
