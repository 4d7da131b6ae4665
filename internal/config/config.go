package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
)

const (
	DefaultFirestoreRegion = "eur3"
	DefaultFunctionsRegion = "europe-west1"
	DefaultKeyAlias        = "upload"
	DefaultPulumiProject   = "flutter-firebase-starter"
	DefaultManifestPath    = "firebase-infrastructure-outputs.json"
	DefaultParallelism     = 3
)

var DefaultEnvironments = []string{"dev", "staging", "prod"}

type Features struct {
	Auth      bool
	Firestore bool
	Functions bool
	Storage   bool
	Hosting   bool
}

// DeploymentConfig is the immutable input of a provisioning run.
type DeploymentConfig struct {
	ProjectBaseName    string   `mapstructure:"projectBaseName" validate:"required,max=24"`
	Organization       string   `mapstructure:"organization" validate:"required"`
	Environments       []string `mapstructure:"environments" validate:"required,min=1,unique,dive,envname"`
	GitHubRepo         string   `mapstructure:"githubRepo" validate:"required,githubrepo"`
	AndroidPackageName string   `mapstructure:"androidPackageName" validate:"required,androidpackage"`
	IOSBundleID        string   `mapstructure:"iosBundleId" validate:"required,bundleid"`
	GCPBillingAccount  string   `mapstructure:"gcpBillingAccount"`
	GCPOrganizationID  string   `mapstructure:"gcpOrganizationId" validate:"omitempty,numeric"`
	GitHubToken        string   `mapstructure:"githubToken"`
	FirestoreRegion    string   `mapstructure:"firestoreRegion" validate:"required"`
	FunctionsRegion    string   `mapstructure:"firebaseFunctionsRegion" validate:"required"`
	EnableAuth         bool     `mapstructure:"enableAuth"`
	EnableFirestore    bool     `mapstructure:"enableFirestore"`
	EnableFunctions    bool     `mapstructure:"enableFunctions"`
	EnableStorage      bool     `mapstructure:"enableStorage"`
	EnableHosting      bool     `mapstructure:"enableHosting"`

	ProtectedEnvironments []string `mapstructure:"protectedEnvironments"`
	KeyAlias              string   `mapstructure:"keyAlias" validate:"required,alphanum"`
	EscrowSigningKey      bool     `mapstructure:"escrowSigningKey"`
	Parallelism           int      `mapstructure:"parallelism" validate:"min=1"`
	PulumiProject         string   `mapstructure:"pulumiProject" validate:"required"`
	PulumiBackendURL      string   `mapstructure:"pulumiBackendUrl"`
	ManifestPath          string   `mapstructure:"manifestPath" validate:"required"`
}

var (
	envNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	repoRe    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*/[A-Za-z0-9._-]+$`)
	packageRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)+$`)
	bundleRe  = regexp.MustCompile(`^[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)+$`)
	projectRe = regexp.MustCompile(`^[a-z][a-z0-9-]{4,28}[a-z0-9]$`)
	validate  = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("mapstructure")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("envname", func(fl validator.FieldLevel) bool {
		return envNameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("githubrepo", func(fl validator.FieldLevel) bool {
		return repoRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("androidpackage", func(fl validator.FieldLevel) bool {
		return packageRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("bundleid", func(fl validator.FieldLevel) bool {
		return bundleRe.MatchString(fl.Field().String())
	})
	return v
}

// Load reads a YAML or JSON deployment config, applies defaults and
// environment overrides, and validates it. No external service is touched.
func Load(path string) (*DeploymentConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.NewValidationError("config", fmt.Sprintf("file %s not found", path))
		}
		return nil, errs.NewValidationError("config", fmt.Sprintf("cannot parse %s: %v", path, err))
	}

	v.SetEnvPrefix("FFS")
	v.AutomaticEnv()
	_ = v.BindEnv("githubToken", "FFS_GITHUBTOKEN", "GITHUB_TOKEN", "GH_TOKEN")
	_ = v.BindEnv("gcpBillingAccount", "FFS_GCPBILLINGACCOUNT", "GCP_BILLING_ACCOUNT")
	_ = v.BindEnv("pulumiBackendUrl", "FFS_PULUMIBACKENDURL", "PULUMI_BACKEND_URL")

	var cfg DeploymentConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.NewValidationError("config", fmt.Sprintf("cannot decode %s: %v", path, err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environments", DefaultEnvironments)
	v.SetDefault("firestoreRegion", DefaultFirestoreRegion)
	v.SetDefault("firebaseFunctionsRegion", DefaultFunctionsRegion)
	v.SetDefault("enableAuth", true)
	v.SetDefault("enableFirestore", true)
	v.SetDefault("enableFunctions", true)
	v.SetDefault("enableStorage", true)
	v.SetDefault("enableHosting", false)
	v.SetDefault("protectedEnvironments", []string{"prod"})
	v.SetDefault("keyAlias", DefaultKeyAlias)
	v.SetDefault("escrowSigningKey", false)
	v.SetDefault("parallelism", DefaultParallelism)
	v.SetDefault("pulumiProject", DefaultPulumiProject)
	v.SetDefault("manifestPath", DefaultManifestPath)
}

// Validate checks field rules and the derived identifiers.
func (c *DeploymentConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errs.NewValidationError(fieldPath(fe), describeRule(fe))
		}
		return errs.NewValidationError("config", err.Error())
	}

	projects := make(map[string]string, len(c.Environments))
	suffixes := make(map[string]string, len(c.Environments))
	for _, env := range c.Environments {
		id := ProjectID(c.ProjectBaseName, env)
		if !projectRe.MatchString(id) {
			return errs.NewValidationError("projectBaseName",
				fmt.Sprintf("derived project id %q must be 6-30 lowercase letters, digits or hyphens", id))
		}
		if other, dup := projects[id]; dup {
			return errs.NewValidationError("environments",
				fmt.Sprintf("%q and %q both derive project id %q", other, env, id))
		}
		projects[id] = env

		suffix := SecretSuffix(env)
		if other, dup := suffixes[suffix]; dup {
			return errs.NewValidationError("environments",
				fmt.Sprintf("%q and %q both derive secret suffix %q", other, env, suffix))
		}
		suffixes[suffix] = env
	}
	return nil
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "githubrepo":
		return fmt.Sprintf("must be owner/name, got %q", fe.Value())
	case "envname":
		return fmt.Sprintf("environment name %q must start with a letter and contain only letters, digits, '-' or '_'", fe.Value())
	case "androidpackage":
		return fmt.Sprintf("%q is not a valid Android package name", fe.Value())
	case "bundleid":
		return fmt.Sprintf("%q is not a valid iOS bundle identifier", fe.Value())
	case "unique":
		return "must not contain duplicates"
	default:
		return fmt.Sprintf("failed rule %q", fe.Tag())
	}
}

func (c *DeploymentConfig) Features() Features {
	return Features{
		Auth:      c.EnableAuth,
		Firestore: c.EnableFirestore,
		Functions: c.EnableFunctions,
		Storage:   c.EnableStorage,
		Hosting:   c.EnableHosting,
	}
}

func (c *DeploymentConfig) Repository() (models.Repository, error) {
	return models.ParseRepository(c.GitHubRepo)
}

func (c *DeploymentConfig) IsProtected(env string) bool {
	for _, p := range c.ProtectedEnvironments {
		if strings.EqualFold(p, env) {
			return true
		}
	}
	return false
}
