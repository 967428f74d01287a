package main

import (
	"testing"

	"github.com/fxbgnss/pppengine/internal/pppclient"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGeodeticToECEF_EquatorAtSeaLevel(t *testing.T) {
	ecef := geodeticToECEF(0, 0, 0)
	require.InDelta(t, 6378137.0, ecef.X, 1e-3)
	require.InDelta(t, 0, ecef.Y, 1e-3)
	require.InDelta(t, 0, ecef.Z, 1e-3)
}

func TestRecordResult_FailureIncrementsFailedCounter(t *testing.T) {
	before := testutil.ToFloat64(epochsFailed)
	recordResult("sess", 100, pppclient.Output{Error: true}, nil, nil)
	require.Greater(t, testutil.ToFloat64(epochsFailed), before)
}

func TestRecordResult_SuccessEnqueuesRow(t *testing.T) {
	rows := make(chan solutionRow, 1)
	recordResult("sess", 100, pppclient.Output{NumSat: 5, HDOP: 1.2}, rows, nil)
	row := <-rows
	require.Equal(t, 5, row.NumSat)
	require.InDelta(t, 1.2, row.HDOP, 1e-9)
}
