package deb

const (
	// BinaryVersion is the content of the debian-binary member
	BinaryVersion = "2.0\n"

	// DefaultSection is used when the definition has no category
	DefaultSection = "net"

	// DefaultPriority is used when the definition has no priority
	DefaultPriority = "optional"

	// DefaultCompression for the data member
	DefaultCompression = "xz"
)

// ar member names
const (
	MemberBinary  = "debian-binary"
	MemberControl = "control.tar.gz"
	MemberData    = "data.tar"
)
