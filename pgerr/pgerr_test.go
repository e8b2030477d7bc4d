package pgerr_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outrigger-db/pgparam/codes"
	"github.com/outrigger-db/pgparam/pgerr"
)

func TestWithKindAttachesCodeSeverityHintAndSource(t *testing.T) {
	err := pgerr.WithKind(errors.New("bad value"), pgerr.KindValueOutOfRange)

	assert.Equal(t, pgerr.KindValueOutOfRange, pgerr.GetKind(err))
	assert.Equal(t, codes.NumericValueOutOfRange, pgerr.GetCode(err))
	assert.Equal(t, pgerr.LevelError, pgerr.GetSeverity(err))
	assert.Equal(t, "the value does not fit the target wire type's range", pgerr.GetHint(err))

	src := pgerr.GetSource(err)
	require.NotNil(t, src)
	assert.True(t, strings.HasSuffix(src.File, "pgerr_test.go"))
	assert.Contains(t, src.Function, "TestWithKindAttachesCodeSeverityHintAndSource")
}

func TestWithKindConcurrentUseIsFatal(t *testing.T) {
	err := pgerr.WithKind(errors.New("reused"), pgerr.KindConcurrentUse)
	assert.Equal(t, pgerr.LevelFatal, pgerr.GetSeverity(err))
}

func TestWithDetailSurvivesKindWrapping(t *testing.T) {
	err := pgerr.WithDetail(errors.New("no match"), "tried the numeric and text paths")
	err = pgerr.WithKind(err, pgerr.KindResolutionFailed)

	assert.Equal(t, "tried the numeric and text paths", pgerr.GetDetail(err))
}

func TestFlattenPopulatesAllFields(t *testing.T) {
	err := pgerr.WithAppType(
		pgerr.WithWireType(
			pgerr.WithValue(errors.New("out of range"), "9999999999"),
			"int4",
		),
		"int64",
	)
	err = pgerr.WithKind(err, pgerr.KindValueOutOfRange)

	desc := pgerr.Flatten(err)
	assert.Equal(t, pgerr.KindValueOutOfRange, desc.Kind)
	assert.Equal(t, codes.NumericValueOutOfRange, desc.Code)
	assert.Equal(t, pgerr.LevelError, desc.Severity)
	assert.Equal(t, "int4", desc.WireType)
	assert.Equal(t, "int64", desc.AppType)
	assert.Equal(t, "9999999999", desc.Value)
	assert.Equal(t, "out of range", desc.Message)
	require.NotNil(t, desc.Source)
}

func TestFlattenNilError(t *testing.T) {
	desc := pgerr.Flatten(nil)
	assert.Equal(t, codes.Internal, desc.Code)
	assert.Equal(t, pgerr.LevelFatal, desc.Severity)
}

func TestGetHintDefaultsToEmpty(t *testing.T) {
	assert.Empty(t, pgerr.GetHint(errors.New("plain")))
}
