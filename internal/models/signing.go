package models

// SigningMaterial is the single upload-key identity shared by all environments.
type SigningMaterial struct {
	KeyAlias      string
	Keystore      string // base64 JKS
	StorePassword string
	KeyPassword   string
}
