package models

// APIKey is the web API key read back from the engine. The engine output is
// untyped, so a missing or malformed value is represented explicitly.
type APIKey struct {
	Value     string
	Available bool
}

func AvailableAPIKey(v string) APIKey {
	if v == "" {
		return UnavailableAPIKey()
	}
	return APIKey{Value: v, Available: true}
}

func UnavailableAPIKey() APIKey {
	return APIKey{}
}

func (k APIKey) String() string {
	if !k.Available {
		return "unavailable"
	}
	return k.Value
}

// DataOutputs are the best-effort resources of an environment.
type DataOutputs struct {
	FirestoreDatabase   string `json:"firestoreDatabase,omitempty"`
	StorageBucket       string `json:"storageBucket,omitempty"`
	HostingURL          string `json:"hostingUrl,omitempty"`
	FunctionsRepository string `json:"functionsRepository,omitempty"`
}

// EnvironmentHandle is everything one provisioned environment hands downstream.
type EnvironmentHandle struct {
	Environment         string
	ProjectID           string
	ProjectNumber       string
	WebAppID            string
	WebAPIKey           APIKey
	AndroidAppID        string
	IOSAppID            string
	ServiceAccountEmail string
	ServiceAccountKey   string // JSON credentials
	GoogleServicesJSON  string // base64
	GoogleServicesPlist string // base64
	Protected           bool
	AuthEnabled         bool
	EscrowSecrets       map[string]string // logical name -> Secret Manager resource id
	Data                DataOutputs
	Changes             map[string]int
	Warnings            []string
}

// ConsoleURL links the environment in the Firebase console.
func (h *EnvironmentHandle) ConsoleURL() string {
	return "https://console.firebase.google.com/project/" + h.ProjectID + "/overview"
}

// ProvisionResult is the joined outcome of the environment fan-out.
type ProvisionResult struct {
	Handles  map[string]*EnvironmentHandle
	Failed   map[string]error
	Warnings map[string][]string
}

func NewProvisionResult() *ProvisionResult {
	return &ProvisionResult{
		Handles:  make(map[string]*EnvironmentHandle),
		Failed:   make(map[string]error),
		Warnings: make(map[string][]string),
	}
}

// Complete reports whether every declared environment produced a handle.
func (r *ProvisionResult) Complete(declared []string) bool {
	for _, env := range declared {
		if _, ok := r.Handles[env]; !ok {
			return false
		}
	}
	return true
}
