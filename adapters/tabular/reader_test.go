package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"abstop/domain/experiment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRead_CSVWithHeaders(t *testing.T) {
	path := writeCSV(t, `group,revenue
control,10.50
control,0
control,22
treatment,8.25
treatment,31
treatment,0
`)

	ds, err := NewDataReader().Read(path)
	require.NoError(t, err)

	control := ds.Stats(experiment.GroupControl)
	assert.Equal(t, 3, control.Count)
	assert.Equal(t, 2, control.Purchases)
	assert.InDelta(t, 32.5, control.TotalRevenue, 1e-9)

	treatment := ds.Stats(experiment.GroupTreatment)
	assert.Equal(t, 3, treatment.Count)
	assert.Equal(t, 2, treatment.Purchases)
}

func TestRead_AlternateHeaderNames(t *testing.T) {
	path := writeCSV(t, `variant,amount
a,10
a,20
b,15
b,25
`)

	ds, err := NewDataReader().Read(path)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Size())
}

func TestRead_UnrecognizedHeaderFallsBackToFirstTwoColumns(t *testing.T) {
	// No recognized header name: columns 0 and 1 are assumed, and the
	// first row is still consumed as a header.
	path := writeCSV(t, `x,y
control,10
control,20
treatment,15
treatment,25
`)

	ds, err := NewDataReader().Read(path)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Size())
}

func TestRead_CaseAndWhitespaceTolerant(t *testing.T) {
	path := writeCSV(t, `Group,Revenue
 Control , 10
 A , 20
 B , 15
 Treatment , 25
`)

	ds, err := NewDataReader().Read(path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Stats(experiment.GroupControl).Count)
	assert.Equal(t, 2, ds.Stats(experiment.GroupTreatment).Count)
}

func TestRead_Rejections(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewDataReader().Read(filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("header only", func(t *testing.T) {
		path := writeCSV(t, "group,revenue\n")
		_, err := NewDataReader().Read(path)
		require.Error(t, err)
	})

	t.Run("bad revenue value", func(t *testing.T) {
		path := writeCSV(t, "group,revenue\ncontrol,ten\ncontrol,5\ntreatment,5\ntreatment,6\n")
		_, err := NewDataReader().Read(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("unknown group label", func(t *testing.T) {
		path := writeCSV(t, "group,revenue\nholdout,10\ncontrol,5\ntreatment,5\n")
		_, err := NewDataReader().Read(path)
		require.Error(t, err)
	})
}

func TestDetectColumns(t *testing.T) {
	g, r, err := detectColumns([]string{"customer_id", "bucket", "spend"})
	require.NoError(t, err)
	assert.Equal(t, 1, g)
	assert.Equal(t, 2, r)

	// One recognized column but not the other is ambiguous.
	_, _, err = detectColumns([]string{"bucket", "something"})
	require.Error(t, err)
}
