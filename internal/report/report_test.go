package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Koson7970/wood-strength-prediction-model/internal/force"
	"github.com/Koson7970/wood-strength-prediction-model/internal/member"
	"github.com/Koson7970/wood-strength-prediction-model/internal/report"
	"github.com/Koson7970/wood-strength-prediction-model/internal/sizing"
	"github.com/Koson7970/wood-strength-prediction-model/internal/timber"
)

func fixture(t *testing.T) *sizing.Result {
	t.Helper()
	members := []member.Member{
		{ID: 0, Start: member.Point{X: 0.004, Y: 1.005, Z: 2}, End: member.Point{X: 3.333, Y: 1, Z: 2}, Length: 3, Bending: 800, Force: force.Tension, Shear: 50},
		{ID: 1, Start: member.Point{X: 0, Y: 0, Z: 0}, End: member.Point{X: 0, Y: 0, Z: 3}, Length: 3, Bending: 1000, Force: force.Compression, AxialForce: 500, Shear: 200},
	}
	stock := []timber.Stock{
		{ID: 0, Reference: "img/a.jpg", MOE: 11000, NominalSize: "4x8", Width: 8.9, Height: 18.4, MaxBending: 1200, MaxCompression: 600, MaxShear: 300},
		{ID: 1, Reference: "img/b.jpg", MOE: 11000, NominalSize: "2x6", Width: 3.8, Height: 14, MaxBending: 700, MaxCompression: 400, MaxShear: 150},
		{ID: 2, Reference: "img/c.jpg", MOE: 11000, NominalSize: "2x6", Width: 3.8, Height: 14, MaxBending: 100, MaxCompression: 400, MaxShear: 150},
	}
	res, err := sizing.Match(members, stock)
	require.NoError(t, err)
	return res
}

func TestAssembleKeepsMemberOrder(t *testing.T) {
	rep, err := report.Assemble(fixture(t))
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)
	require.Len(t, rep.Export, 2)

	// member 1 has the larger bending demand and receives stock 0
	assert.Equal(t, 0, rep.Rows[0].MemberID)
	assert.Equal(t, 1, rep.Rows[0].MaterialID)
	assert.Equal(t, 1, rep.Rows[1].MemberID)
	assert.Equal(t, 0, rep.Rows[1].MaterialID)

	assert.Equal(t, 300.0, rep.Rows[1].Length)
	assert.Equal(t, 0.83, rep.Rows[1].MaxRatio)
	assert.Equal(t, "img/b.jpg", rep.Export[0].Reference)
	assert.Equal(t, "img/a.jpg", rep.Export[1].Reference)
	assert.Empty(t, rep.Failed())
}

func TestWriteCSV(t *testing.T) {
	rep, err := report.Assemble(fixture(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, rep.Export))

	want := "Member Index,startPt.X,startPt.Y,startPt.Z,endPt.X,endPt.Y,endPt.Z,Number of Composite,Material ID,Beam Width,Beam Height,Timber Image\n" +
		"0,0,1,2,3.33,1,2,2,1,7.6,14,img/b.jpg\n" +
		"1,0,0,0,0,0,3,1,0,8.9,18.4,img/a.jpg\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	repA, err := report.Assemble(fixture(t))
	require.NoError(t, err)
	repB, err := report.Assemble(fixture(t))
	require.NoError(t, err)
	require.NoError(t, report.WriteCSV(&a, repA.Export))
	require.NoError(t, report.WriteCSV(&b, repB.Export))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestWriteSizingCSV(t *testing.T) {
	rep, err := report.Assemble(fixture(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteSizingCSV(&buf, rep.Rows))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(report.SizingHeader, ","), lines[0])
	assert.Equal(t, "1,0,8.9,18.4,300,0.83,0.83,0.83,0.67", lines[2])
}

func TestSaveSizingCSVCreatesDirectory(t *testing.T) {
	rep, err := report.Assemble(fixture(t))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "out", "sizing.csv")
	require.NoError(t, report.SaveSizingCSV(path, rep.Rows))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "compositeNum,materialID,"))
}

func TestSaveCSVCreatesDirectory(t *testing.T) {
	rep, err := report.Assemble(fixture(t))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "out", "members.csv")
	require.NoError(t, report.SaveCSV(path, rep.Export))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Member Index,"))
}

func TestAssembleFailedMember(t *testing.T) {
	members := []member.Member{
		{ID: 0, Length: 1, Bending: 10, Force: force.Tension, Shear: 1},
		{ID: 1, Length: 1, Bending: 5, Force: force.Tension, Shear: 1},
	}
	stock := []timber.Stock{
		{ID: 0, Width: 3.8, Height: 14, MaxBending: 100, MaxShear: 100},
		{ID: 1, Width: 3.8, Height: 14, MaxBending: 50, MaxShear: 0},
	}
	res, err := sizing.Match(members, stock)
	require.Error(t, err)

	rep, err := report.Assemble(res)
	require.NoError(t, err)
	failed := rep.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].MemberID)
	assert.Equal(t, -1, failed[0].MaterialID)
	assert.Contains(t, failed[0].Err, "degenerate")
	assert.True(t, rep.Rows[0].Sized())
}

func TestLabels(t *testing.T) {
	rep, err := report.Assemble(fixture(t))
	require.NoError(t, err)
	got := report.Labels(rep.Rows[0], rep.Export[0])
	assert.Equal(t, [5]string{
		"Member Index: 0",
		"Number of Composite: 2",
		"From: ( 0, 1, 2)  To: ( 3.33, 1, 2)",
		"Width: 7.6 cm   Height: 14 cm",
		"Material Index: 1",
	}, got)
}

func TestWriteXLSX(t *testing.T) {
	rep, err := report.Assemble(fixture(t))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, report.WriteXLSX(path, rep))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Export")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, report.ExportHeader, rows[0])
	assert.Equal(t, "img/a.jpg", rows[2][11])

	sizingRows, err := f.GetRows("Sizing")
	require.NoError(t, err)
	require.Len(t, sizingRows, 3)
	assert.Equal(t, "compression", sizingRows[2][1])
}

func TestWritePDF(t *testing.T) {
	rep, err := report.Assemble(fixture(t))
	require.NoError(t, err)
	var buf bytes.Buffer
	err = report.WritePDF(&buf, rep, report.Meta{Project: "Pavilion", RunID: "run-1", Date: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
