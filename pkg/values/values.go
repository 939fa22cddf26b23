// Package values models the values document consumed by the platform chart.
//
// The document is a plain YAML mapping; this package gives it a typed shape,
// default values matching the chart defaults, overlay loading with deep merge
// semantics, and validation of the fields the chart templates depend on.
package values

import (
	"errors"
	"fmt"
	"os"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/soad-platform/soad-deploy/pkg/util"
)

const (
	// TradingConfigPath is where the trading configuration is mounted inside
	// platform containers, via the release config map.
	TradingConfigPath = "/etc/config/trading-config.yaml"
)

var (
	// ErrReplicaCountNegative is returned when replicaCount is below zero.
	ErrReplicaCountNegative = errors.New("replicaCount cannot be negative")

	// ErrImageRepositoryRequired is returned when an image repository is empty.
	ErrImageRepositoryRequired = errors.New("image repository is required")

	// ErrImageTagRequired is returned when an image tag is empty.
	ErrImageTagRequired = errors.New("image tag is required")

	// ErrDatabaseIncomplete is returned when database connection fields are missing.
	ErrDatabaseIncomplete = errors.New("database user, host, port and name are required")
)

// Values is the typed form of the chart values document.
type Values struct {
	ReplicaCount int            `json:"replicaCount"`
	Sync         Sync           `json:"sync"`
	OrderManager OrderManager   `json:"order_manager"`
	SyncWorker   SyncWorker     `json:"sync_worker"`
	API          API            `json:"api"`
	Database     Database       `json:"database"`
	Brokers      Brokers        `json:"brokers"`
	Config       map[string]any `json:"config,omitempty"`
}

// Sync gates whether the trading workloads (order manager and sync worker)
// are rendered at all.
type Sync struct {
	Enabled bool `json:"enabled"`
}

// Image is a container image reference.
type Image struct {
	Repository string `json:"repository"`
	Tag        string `json:"tag"`
	PullPolicy string `json:"pullPolicy,omitempty"`
}

// Ref returns the image reference in "repository:tag" form.
func (i Image) Ref() string {
	return i.Repository + ":" + i.Tag
}

func (i Image) validate() error {
	if i.Repository == "" {
		return ErrImageRepositoryRequired
	}
	if i.Tag == "" {
		return ErrImageTagRequired
	}

	return nil
}

// OrderManager configures the order manager deployment.
type OrderManager struct {
	Image Image `json:"image"`
}

// SyncWorker configures the account sync worker deployment.
type SyncWorker struct {
	Image Image `json:"image"`
}

// API configures the trading API deployment and its service.
type API struct {
	Enabled      bool   `json:"enabled"`
	Image        Image  `json:"image"`
	Port         int    `json:"port"`
	DashboardURL string `json:"dashboard_url,omitempty"`
	Auth         Auth   `json:"auth"`
}

// Auth holds the trading API credentials.
type Auth struct {
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	JWTSecret string `json:"jwt_secret,omitempty"`
}

// Database holds the connection fields composed into DATABASE_URL.
type Database struct {
	User     string `json:"user"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Name     string `json:"name"`
}

// URL composes the async SQLAlchemy connection URL consumed by the platform:
// postgresql+asyncpg://<user>:<password>@<host>:<port>/<name>.
func (d Database) URL() string {
	return fmt.Sprintf("postgresql+asyncpg://%s:%s@%s:%d/%s", d.User, d.Password, d.Host, d.Port, d.Name)
}

// RedactedURL is URL with the password masked, safe for logs and CLI output.
func (d Database) RedactedURL() string {
	password := d.Password
	if password != "" {
		password = "****"
	}

	return fmt.Sprintf("postgresql+asyncpg://%s:%s@%s:%d/%s", d.User, password, d.Host, d.Port, d.Name)
}

// Brokers holds credential material passed verbatim to the workloads.
type Brokers struct {
	Tradier    Tradier    `json:"tradier"`
	Alpaca     Alpaca     `json:"alpaca"`
	Tastytrade Tastytrade `json:"tastytrade"`
	Kraken     Kraken     `json:"kraken"`
}

// Tradier holds Tradier credentials.
type Tradier struct {
	APIKey string `json:"api_key,omitempty"`
}

// Alpaca holds Alpaca credentials.
type Alpaca struct {
	APIKey string `json:"api_key,omitempty"`
}

// Tastytrade holds Tastytrade credentials.
type Tastytrade struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Kraken holds Kraken credentials.
type Kraken struct {
	APIKey    string `json:"api_key,omitempty"`
	APISecret string `json:"api_secret,omitempty"`
}

// Default returns the values document matching the chart defaults.
func Default() *Values {
	return &Values{
		ReplicaCount: 1,
		Sync: Sync{
			Enabled: true,
		},
		OrderManager: OrderManager{
			Image: Image{
				Repository: "soadtrading/soad",
				Tag:        "latest",
				PullPolicy: "IfNotPresent",
			},
		},
		SyncWorker: SyncWorker{
			Image: Image{
				Repository: "soadtrading/soad",
				Tag:        "latest",
				PullPolicy: "IfNotPresent",
			},
		},
		API: API{
			Enabled: true,
			Image: Image{
				Repository: "soadtrading/soad",
				Tag:        "latest",
				PullPolicy: "IfNotPresent",
			},
			Port:         8000,
			DashboardURL: "http://localhost:3000",
		},
		Database: Database{
			User: "soad",
			Host: "postgres",
			Port: 5432,
			Name: "soad",
		},
	}
}

// Load reads a values document from path and deep merges it over the defaults.
// Overlay values take precedence; nested mappings merge recursively.
func Load(path string) (*Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes a values document and deep merges it over the defaults.
func Parse(data []byte) (*Values, error) {
	overlay := map[string]any{}
	if err := sigsyaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to decode values document: %w", err)
	}

	base, err := Default().ToMap()
	if err != nil {
		return nil, err
	}

	merged := util.DeepMerge(base, overlay)

	encoded, err := sigsyaml.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged values: %w", err)
	}

	v := Values{}
	if err := sigsyaml.UnmarshalStrict(encoded, &v); err != nil {
		return nil, fmt.Errorf("failed to decode merged values: %w", err)
	}

	return &v, nil
}

// Validate checks the fields the chart templates depend on.
func (v *Values) Validate() error {
	if v.ReplicaCount < 0 {
		return ErrReplicaCountNegative
	}

	if err := v.OrderManager.Image.validate(); err != nil {
		return fmt.Errorf("order_manager: %w", err)
	}
	if err := v.SyncWorker.Image.validate(); err != nil {
		return fmt.Errorf("sync_worker: %w", err)
	}
	if v.API.Enabled {
		if err := v.API.Image.validate(); err != nil {
			return fmt.Errorf("api: %w", err)
		}
	}

	d := v.Database
	if d.User == "" || d.Host == "" || d.Port <= 0 || d.Name == "" {
		return ErrDatabaseIncomplete
	}

	return nil
}

// ToMap converts the values document into the nested mapping shape Helm consumes.
func (v *Values) ToMap() (map[string]any, error) {
	encoded, err := sigsyaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode values: %w", err)
	}

	out := map[string]any{}
	if err := sigsyaml.Unmarshal(encoded, &out); err != nil {
		return nil, fmt.Errorf("failed to decode values: %w", err)
	}

	return out, nil
}

// Redacted returns a copy with all secret material masked, safe for display.
func (v *Values) Redacted() *Values {
	out := *v

	mask := func(s string) string {
		if s == "" {
			return s
		}
		return "****"
	}

	out.Database.Password = mask(out.Database.Password)
	out.API.Auth.Password = mask(out.API.Auth.Password)
	out.API.Auth.JWTSecret = mask(out.API.Auth.JWTSecret)
	out.Brokers.Tradier.APIKey = mask(out.Brokers.Tradier.APIKey)
	out.Brokers.Alpaca.APIKey = mask(out.Brokers.Alpaca.APIKey)
	out.Brokers.Tastytrade.Password = mask(out.Brokers.Tastytrade.Password)
	out.Brokers.Kraken.APIKey = mask(out.Brokers.Kraken.APIKey)
	out.Brokers.Kraken.APISecret = mask(out.Brokers.Kraken.APISecret)

	return &out
}
