package core

// Artifact describes a built package file
type Artifact struct {
	Path      string // Absolute path of the package file
	Format    string // Backend that produced it
	Size      int64  // Size in bytes
	SHA256    string // Hex digest of the file
	Signature string // Path of the detached signature, if signed
}
