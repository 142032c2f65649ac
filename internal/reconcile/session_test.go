package reconcile

import (
	"errors"
	"testing"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/csvparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_LoadWithoutRoster(t *testing.T) {
	path := writeExport(t, export(threeCodes, threePoints, `"Doe, John",jdoe`, `,,,5,1,2,0`))

	s := NewSession(testSession(), nil)
	_, err := s.Load(path)

	var mr *MissingRosterError
	require.True(t, errors.As(err, &mr))
	assert.Nil(t, s.Current())
}

func TestSession_FailedLoadKeepsPreviousReport(t *testing.T) {
	good := writeExport(t, export(threeCodes, threePoints, `"Doe, John",jdoe`, `,,,5,1,2,0`))
	badHeader := writeExport(t, export(threeCodes, ",,,,,,,1,Points", `"Doe, John",jdoe`, `,,,5,1,2,0`))
	badCell := writeExport(t, export(threeCodes, threePoints, `"Doe, John",jdoe`, `,,,5,x,2,0`))

	s := NewSession(testSession(), nil)
	s.SetRoster(testRoster)

	first, err := s.Load(good)
	require.NoError(t, err)

	_, err = s.Load(badHeader)
	var mh *csvparser.MalformedHeaderError
	require.True(t, errors.As(err, &mh))
	assert.Same(t, first, s.Current())

	_, err = s.Load(badCell)
	require.Error(t, err)
	assert.Same(t, first, s.Current())

	_, err = s.Load(good + ".missing")
	require.Error(t, err)
	assert.Same(t, first, s.Current())
}

func TestSession_ReplacesReportOnSuccess(t *testing.T) {
	a := writeExport(t, export(threeCodes, threePoints, `"Doe, John",jdoe`, `,,,5,1,2,0`))
	b := writeExport(t, export(threeCodes, threePoints, `"Roe, Jane",jroe`, `,,,1,1,0,0`))

	s := NewSession(testSession(), nil)
	s.SetRoster(testRoster)

	_, err := s.Load(a)
	require.NoError(t, err)
	second, err := s.Load(b)
	require.NoError(t, err)

	assert.Same(t, second, s.Current())
	assert.Equal(t, "B2", s.Current().Report.Records[0].Section)
	assert.Equal(t, b, s.Current().FilePath)
}

func TestSession_SetRosterNormalizes(t *testing.T) {
	s := NewSession(testSession(), nil)
	s.SetRoster(testRoster)
	require.Equal(t, 2, s.Roster().Len())
}
