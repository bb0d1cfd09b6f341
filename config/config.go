package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/mcmarkets/internal/domain"
	"github.com/alejandrodnm/mcmarkets/internal/insurance"
	"github.com/alejandrodnm/mcmarkets/internal/model"
)

// Config es la configuración completa del laboratorio de simulación.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Model      ModelConfig      `yaml:"model"`
	Duopoly    DuopolyConfig    `yaml:"duopoly"`
	Insurance  InsuranceConfig  `yaml:"insurance"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// SimulationConfig controla los tamaños y semillas del Monte Carlo.
type SimulationConfig struct {
	Markets     int     `yaml:"markets"`      // mercados por panel
	Samples     int     `yaml:"samples"`      // paneles independientes
	Seed        uint64  `yaml:"seed"`         // semilla base
	SolverTol   float64 `yaml:"solver_tol"`   // tolerancia del root-finder
	MaxIter     int     `yaml:"max_iter"`     // iteraciones Broyden
	PreviewRows int     `yaml:"preview_rows"` // filas de panel en modo tabla
}

// ModelConfig son los parámetros estructurales del modelo de precios.
type ModelConfig struct {
	Beta0      float64 `yaml:"beta0"`
	BetaX      float64 `yaml:"beta_x"`
	Alpha      float64 `yaml:"alpha"`
	Gamma0     float64 `yaml:"gamma0"`
	GammaX     float64 `yaml:"gamma_x"`
	GammaW     float64 `yaml:"gamma_w"`
	SigmaOmega float64 `yaml:"sigma_omega"`
	SigmaC     float64 `yaml:"sigma_c"`
	SigmaD     float64 `yaml:"sigma_d"`
}

// DuopolyConfig calibra la variante de competencia en calidad.
type DuopolyConfig struct {
	T      float64 `yaml:"t"`
	Mu     float64 `yaml:"mu"`
	P      float64 `yaml:"p"`
	Gamma1 float64 `yaml:"gamma1"`
	Gamma2 float64 `yaml:"gamma2"`
}

// InsuranceConfig calibra el cálculo de disposición a pagar.
type InsuranceConfig struct {
	Wealth float64 `yaml:"wealth"`
	CARA   float64 `yaml:"cara"`
	Loss   string  `yaml:"loss"` // normal | lognormal
	Mu     float64 `yaml:"mu"`
	Sigma  float64 `yaml:"sigma"`
	Nodes  int     `yaml:"nodes"`
	Steps  int     `yaml:"steps"` // puntos de la curva de cobertura
}

// StorageConfig controla dónde se persisten los runs.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si
// existe. Las variables de entorno sobreescriben las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Default devuelve la configuración sin archivo: el experimento documentado
// con sus parámetros publicados.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// ModelParams devuelve el bloque model como parámetros del dominio.
func (c *Config) ModelParams() domain.Params {
	return domain.Params{
		Beta0:      c.Model.Beta0,
		BetaX:      c.Model.BetaX,
		Alpha:      c.Model.Alpha,
		Gamma0:     c.Model.Gamma0,
		GammaX:     c.Model.GammaX,
		GammaW:     c.Model.GammaW,
		SigmaOmega: c.Model.SigmaOmega,
		SigmaC:     c.Model.SigmaC,
		SigmaD:     c.Model.SigmaD,
	}
}

// QualityModel devuelve el bloque duopoly como modelo de calidad.
func (c *Config) QualityModel() model.QualityModel {
	return model.QualityModel{
		T:      c.Duopoly.T,
		Mu:     c.Duopoly.Mu,
		P:      c.Duopoly.P,
		Gamma1: c.Duopoly.Gamma1,
		Gamma2: c.Duopoly.Gamma2,
	}
}

// Contract devuelve el bloque insurance como contrato CARA.
func (c *Config) Contract() insurance.Contract {
	return insurance.Contract{
		Wealth: c.Insurance.Wealth,
		CARA:   c.Insurance.CARA,
		Loss:   insurance.LossKind(c.Insurance.Loss),
		Mu:     c.Insurance.Mu,
		Sigma:  c.Insurance.Sigma,
		Nodes:  c.Insurance.Nodes,
	}
}

// applyEnvOverrides sobreescribe valores con variables de entorno.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("SIMLAB_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
// Los parámetros del modelo por defecto son los del experimento publicado:
// {β0=5, βx=2, α=1, γ0=1, γx=.5, γw=.25, σω=.25, σc=.25, σd=1}.
func setDefaults(cfg *Config) {
	if cfg.Simulation.Markets <= 0 {
		cfg.Simulation.Markets = 100
	}
	if cfg.Simulation.Samples <= 0 {
		cfg.Simulation.Samples = 100
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = 42
	}
	if cfg.Simulation.PreviewRows <= 0 {
		cfg.Simulation.PreviewRows = 10
	}

	if cfg.Model.Beta0 == 0 && cfg.Model.BetaX == 0 && cfg.Model.Alpha == 0 {
		cfg.Model = ModelConfig{
			Beta0: 5, BetaX: 2, Alpha: 1,
			Gamma0: 1, GammaX: 0.5, GammaW: 0.25,
			SigmaOmega: 0.25, SigmaC: 0.25, SigmaD: 1,
		}
	}

	if cfg.Duopoly.Mu == 0 {
		cfg.Duopoly = DuopolyConfig{T: 1, Mu: 10, P: 10, Gamma1: 1.5, Gamma2: 1}
	}

	if cfg.Insurance.CARA == 0 {
		cfg.Insurance = InsuranceConfig{
			Wealth: 10, CARA: 0.5, Loss: "lognormal", Mu: 0, Sigma: 0.5, Nodes: 32, Steps: 10,
		}
	}
	if cfg.Insurance.Steps <= 0 {
		cfg.Insurance.Steps = 10
	}

	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "simlab.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
