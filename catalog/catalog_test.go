package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/pgerr"
)

func TestOIDOfBuiltin(t *testing.T) {
	c := catalog.New()

	id, err := c.OIDOf(catalog.ByName("int4"))
	require.NoError(t, err)
	assert.NotZero(t, id)

	name, err := c.NameOf(id)
	require.NoError(t, err)
	assert.Equal(t, catalog.WireTypeName("int4"), name)
}

func TestOIDOfPassesThroughRawOID(t *testing.T) {
	c := catalog.New()

	id, err := c.OIDOf(catalog.ByOID(99999))
	require.NoError(t, err)
	assert.EqualValues(t, 99999, id)
}

func TestOIDOfUnknownName(t *testing.T) {
	c := catalog.New()

	_, err := c.OIDOf(catalog.ByName("not_a_real_type"))
	require.Error(t, err)
	assert.Equal(t, pgerr.KindUnknownType, pgerr.GetKind(err))
}

func TestArrayOf(t *testing.T) {
	c := catalog.New()

	arr, err := c.ArrayOf("int4")
	require.NoError(t, err)
	assert.Equal(t, "_int4", arr.String())
}

func TestRegisterTypeOverridesSessionMapping(t *testing.T) {
	c := catalog.New()

	c.RegisterType("my_enum", catalog.OID(40000))

	id, err := c.OIDOf(catalog.ByName("my_enum"))
	require.NoError(t, err)
	assert.EqualValues(t, 40000, id)

	name, err := c.NameOf(catalog.OID(40000))
	require.NoError(t, err)
	assert.Equal(t, catalog.WireTypeName("my_enum"), name)
}

func TestCatalogIndependence(t *testing.T) {
	a := catalog.New()
	b := catalog.New()
	b.RegisterType("int4", catalog.OID(777))

	idA, err := a.OIDOf(catalog.ByName("int4"))
	require.NoError(t, err)

	idB, err := b.OIDOf(catalog.ByName("int4"))
	require.NoError(t, err)

	assert.NotEqual(t, idA, idB)
}
