// Package config loads the PPP engine's tunable options (spec.md §6) from
// YAML, replacing the teacher's PrcOpt/SolOpt pair (`rtklib.go`/`option.go`
// equivalents) with a single flat Options document suited to the engine's
// narrower scope.
package config

import (
	"fmt"
	"os"

	"github.com/fxbgnss/pppengine/internal/kalman"
	"gopkg.in/yaml.v2"
)

// Options is the full configuration document spec.md §6's table describes:
// which constellations participate and every Kalman filter tuning knob.
// The ionosphere-free signal pair of each system is fixed in package
// obsmodel and is not an option here. Grounded on the PrcOpt
// fields in types.go, flattened and renamed to the engine's own vocabulary.
type Options struct {
	UseSystem struct {
		GPS     bool `yaml:"gps"`
		GLONASS bool `yaml:"glonass"`
		Galileo bool `yaml:"galileo"`
		BeiDou  bool `yaml:"beidou"`
	} `yaml:"use_system"`

	AprSigCrd [3]float64 `yaml:"apr_sig_crd"`
	NoiseCrd  [3]float64 `yaml:"noise_crd"`
	AprSigTrp float64    `yaml:"apr_sig_trp"`
	NoiseTrp  float64    `yaml:"noise_trp"`
	AprSigAmb float64    `yaml:"apr_sig_amb"`

	SigmaC1  float64 `yaml:"sigma_c1"`
	SigmaL1  float64 `yaml:"sigma_l1"`
	MaxResC1 float64 `yaml:"max_res_c1"`
	MaxResL1 float64 `yaml:"max_res_l1"`

	ElevWeightCode  bool `yaml:"ele_wgt_code"`
	ElevWeightPhase bool `yaml:"ele_wgt_phase"`

	MinEleDeg float64 `yaml:"min_ele"`
	MinObs    int     `yaml:"min_obs"`

	SeedingTimeSec float64 `yaml:"seeding_time"`
	UseOrbClkCorr  bool    `yaml:"use_orb_clk_corr"`
}

// Default returns the configuration defaults spec.md §6 names, expressed
// through kalman.DefaultOptions so the two stay in lock step.
func Default() Options {
	k := kalman.DefaultOptions()
	var o Options
	o.UseSystem.GPS = true
	o.UseSystem.GLONASS = true
	o.UseSystem.Galileo = true
	o.UseSystem.BeiDou = true
	o.AprSigCrd = k.AprSigCrd
	o.NoiseCrd = k.NoiseCrd
	o.AprSigTrp = k.AprSigTrp
	o.NoiseTrp = k.NoiseTrp
	o.AprSigAmb = k.AprSigAmb
	o.SigmaC1 = k.SigmaC1
	o.SigmaL1 = k.SigmaL1
	o.MaxResC1 = k.MaxResC1
	o.MaxResL1 = k.MaxResL1
	o.ElevWeightCode = k.ElevWeightCode
	o.ElevWeightPhase = k.ElevWeightPhase
	o.MinEleDeg = k.MinElevRad * 180.0 / 3.14159265358979
	o.MinObs = k.MinObs
	o.SeedingTimeSec = k.SeedingTimeSec
	o.UseOrbClkCorr = k.UseOrbClkCorr
	return o
}

// Load reads a YAML options document from path, starting from Default and
// overriding whatever fields the document sets.
func Load(path string) (Options, error) {
	o := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return o, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return o, nil
}

// ToKalmanOptions converts the loaded document into the kalman.Options the
// filter constructor needs.
func (o Options) ToKalmanOptions() kalman.Options {
	k := kalman.DefaultOptions()
	k.AprSigCrd = o.AprSigCrd
	k.NoiseCrd = o.NoiseCrd
	k.AprSigTrp = o.AprSigTrp
	k.NoiseTrp = o.NoiseTrp
	k.AprSigAmb = o.AprSigAmb
	k.SigmaC1 = o.SigmaC1
	k.SigmaL1 = o.SigmaL1
	k.MaxResC1 = o.MaxResC1
	k.MaxResL1 = o.MaxResL1
	k.ElevWeightCode = o.ElevWeightCode
	k.ElevWeightPhase = o.ElevWeightPhase
	k.MinElevRad = o.MinEleDeg * 3.14159265358979 / 180.0
	k.MinObs = o.MinObs
	k.SeedingTimeSec = o.SeedingTimeSec
	k.UseOrbClkCorr = o.UseOrbClkCorr
	return k
}
