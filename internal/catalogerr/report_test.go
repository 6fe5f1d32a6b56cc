package catalogerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_AsError(t *testing.T) {
	report := &Report{}
	assert.Nil(t, report.AsError())

	report.Schema("rules.yml", "missing field %s", "days")
	assert.True(t, report.HasErrors())
	assert.NotNil(t, report.AsError())
}

func TestReport_ErrorJoinsDiagnostics(t *testing.T) {
	report := &Report{}
	report.Schema("a.yml", "bad field")
	report.Referential("b.yml", "unknown id %q", "x")
	report.Invariant("c.yml", "too many proteins")

	msg := report.Error()
	assert.Contains(t, msg, "[schema] a.yml: bad field")
	assert.Contains(t, msg, "[referential] b.yml: unknown id \"x\"")
	assert.Contains(t, msg, "[invariant] c.yml: too many proteins")
}

func TestReport_Merge(t *testing.T) {
	a := &Report{}
	a.Schema("a.yml", "first")
	b := &Report{}
	b.Invariant("b.yml", "second")

	a.Merge(b)
	assert.Len(t, a.Diagnostics, 2)
}

func TestReport_ErrorsAs(t *testing.T) {
	report := &Report{}
	report.Schema("a.yml", "boom")

	var err error = report.AsError()
	var target *Report
	assert.True(t, errors.As(err, &target))
	assert.Same(t, report, target)
}
