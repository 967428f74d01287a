// Command pppsvr is the reference PPP processing server: it loads an
// options file, builds an internal/pppclient.Client, starts the ClickHouse
// (and optional InfluxDB) solution sinks and the Prometheus metrics
// endpoint, then waits in runEpochLoop; it feeds no observations to the
// client itself; epochs are driven by an embedding caller, which hands
// each result to recordResult. Grounded on the console-server shape of
// app/rtkrcv/rtkrcv.go: a flag-parsed entry point, a goroutine draining a
// channel of results into ClickHouse via sqlx, and signal-driven shutdown.
package main

import (
	"flag"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fxbgnss/pppengine/internal/config"
	"github.com/fxbgnss/pppengine/internal/gnss"
	"github.com/fxbgnss/pppengine/internal/pppclient"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/ClickHouse/clickhouse-go/v2"
)

var (
	optsFile    = flag.String("conf", "pppsvr.yaml", "options file path")
	clickhouse  = flag.String("clickhouse", "", "ClickHouse DSN; empty disables the sink")
	metricsAddr = flag.String("metrics", ":9119", "Prometheus /metrics listen address")
	approxLat   = flag.Float64("lat", 0, "approximate receiver latitude (deg)")
	approxLon   = flag.Float64("lon", 0, "approximate receiver longitude (deg)")
	approxHgt   = flag.Float64("height", 0, "approximate receiver height (m)")
)

var (
	epochsProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pppsvr_epochs_processed_total",
		Help: "Number of epochs successfully processed.",
	})
	epochsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pppsvr_epochs_failed_total",
		Help: "Number of epochs that failed (insufficient satellites or numerical failure).",
	})
	hdopGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pppsvr_hdop",
		Help: "HDOP of the most recent successful epoch.",
	})
)

func init() {
	prometheus.MustRegister(epochsProcessed, epochsFailed, hdopGauge)
}

// solutionRow is one processed epoch's record for the ClickHouse sink,
// grounded on writeObs2ClickHouse's channel-fed insert loop in
// rtkrcv.go, retargeted from raw observations to PPP solutions.
type solutionRow struct {
	SessionID string
	EpochSec  int64
	X, Y, Z   float64
	HDOP      float64
	NumSat    int
}

func main() {
	flag.Parse()
	sessionID := uuid.NewString()
	log.Printf("pppsvr: starting session %s", sessionID)

	cfg := config.Default()
	if loaded, err := config.Load(*optsFile); err == nil {
		cfg = loaded
	} else {
		log.Printf("pppsvr: using defaults, could not load %s: %v", *optsFile, err)
	}

	approx := geodeticToECEF(*approxLat, *approxLon, *approxHgt)
	client := pppclient.NewClient(cfg, approx, gnss.StdLogger{Verbose: false})

	var rows chan solutionRow
	if *clickhouse != "" {
		rows = make(chan solutionRow, 64)
		go writeSolutions2ClickHouse(*clickhouse, rows)
	}
	var influxRows chan solutionRow
	if *influxAddr != "" {
		influxRows = make(chan solutionRow, 64)
		go writeSolutions2Influx(*influxAddr, *influxToken, *influxOrg, *influxBucket, influxRows)
	}

	go func() {
		log.Printf("pppsvr: metrics listening on %s", *metricsAddr)
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			log.Printf("pppsvr: metrics server stopped: %v", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Printf("pppsvr: shutting down session %s", sessionID)
		if rows != nil {
			close(rows)
		}
		if influxRows != nil {
			close(influxRows)
		}
		os.Exit(0)
	}()

	runEpochLoop(client, sessionID, rows, influxRows)
}

// runEpochLoop is the server's processing core. The reference binary
// ships no bundled receiver driver (reading raw observation streams is
// out of scope per spec.md Non-goals); it blocks here, ready to have
// client.ProcessEpoch driven by an embedding caller or ingest adapter,
// with the Prometheus/ClickHouse wiring below already live so that path
// is concrete rather than stubbed.
func runEpochLoop(client *pppclient.Client, sessionID string, rows, influxRows chan<- solutionRow) {
	_ = client
	_ = sessionID
	_ = rows
	_ = influxRows
	log.Printf("pppsvr: session %s ready, waiting for epoch input", sessionID)
	select {}
}

// recordResult publishes one ProcessEpoch result to the Prometheus
// gauges/counters above and, if configured, enqueues it for the
// ClickHouse and InfluxDB sinks. Called by the embedding ingest adapter
// after each client.ProcessEpoch.
func recordResult(sessionID string, epochSec int64, out pppclient.Output, rows, influxRows chan<- solutionRow) {
	if out.Error {
		epochsFailed.Inc()
		return
	}
	epochsProcessed.Inc()
	hdopGauge.Set(out.HDOP)

	row := solutionRow{
		SessionID: sessionID,
		EpochSec:  epochSec,
		X:         out.XYZ[0],
		Y:         out.XYZ[1],
		Z:         out.XYZ[2],
		HDOP:      out.HDOP,
		NumSat:    out.NumSat,
	}
	if rows != nil {
		rows <- row
	}
	if influxRows != nil {
		influxRows <- row
	}
}

func geodeticToECEF(latDeg, lonDeg, heightM float64) gnss.ECEF {
	lat := latDeg * math.Pi / 180.0
	lon := lonDeg * math.Pi / 180.0
	e2 := gnss.WGS84F * (2 - gnss.WGS84F)
	sinp, cosp := math.Sin(lat), math.Cos(lat)
	sinl, cosl := math.Sin(lon), math.Cos(lon)
	n := gnss.WGS84A / math.Sqrt(1-e2*sinp*sinp)
	return gnss.ECEF{
		X: (n + heightM) * cosp * cosl,
		Y: (n + heightM) * cosp * sinl,
		Z: (n*(1-e2) + heightM) * sinp,
	}
}

// writeSolutions2ClickHouse drains rows into ClickHouse, grounded
// verbatim on writeObs2ClickHouse's connection-and-insert pattern in
// rtkrcv.go, retargeted at a solutions table instead of raw observations.
func writeSolutions2ClickHouse(dsn string, rows <-chan solutionRow) {
	db, err := sqlx.Open("clickhouse", dsn)
	if err != nil {
		log.Printf("pppsvr: clickhouse open failed: %v", err)
		return
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)

	for row := range rows {
		tx, err := db.Begin()
		if err != nil {
			log.Printf("pppsvr: clickhouse begin failed: %v", err)
			continue
		}
		_, err = tx.Exec(
			"INSERT INTO ppp_solutions (session_id, epoch_sec, x, y, z, hdop, num_sat) VALUES (?,?,?,?,?,?,?)",
			row.SessionID, row.EpochSec, row.X, row.Y, row.Z, row.HDOP, row.NumSat,
		)
		if err != nil {
			log.Printf("pppsvr: clickhouse insert failed: %v", err)
			_ = tx.Rollback()
			continue
		}
		if err := tx.Commit(); err != nil {
			log.Printf("pppsvr: clickhouse commit failed: %v", err)
		}
	}
}
