package spec

var (
	// 64 random characters each
	r1 = "c7Kp2Vx9Qe4Tz1Wb8Ns5Ym0Lr3Hj6Df2Ga9Su4Ie7Ou1Ay8Ty5Ri2Xo6Bn3Mq0Z"
	r2 = "J4kL7pO2qA9sD6fG1hZ8xC5vB3nM0eW7rT4yU1iP6oK9jH2gF5dS8aQ3wE0zX6cR"
	r3 = "V1bN8mX5zQ2wE9rT6yU3iO0pA7sD4fG1hJ8kL5qC2vB9nM6eR3tY0uI7oP4aS1dF"

	// MasterKey is the concatenation of all three parts.
	MasterKey = r1 + r2 + r3
)

const (
	// === IDENTITY & VERSIONING ===
	Version = "1.0.0"

	// === MAGIC NUMBERS ===
	BankMagic   = "CROAKB01"
	LockerMagic = "CRKBKY01"

	// === SECURITY & ENGINE SPECS ===
	RandomPasswordLen = 32
	NonceSize         = 12
	SampleRate        = 48000
	Channels          = 2
	FrameMillis       = 20

	// === TLV TAGS ===
	Salt        = "SALT"
	Title       = "TITL"
	Author      = "AUTH"
	CreatedDate = "CRDT"
	Comment     = "CMNT"

	// Tags for the audio area
	AudioData   = "AUDI"
	TableOfCont = "TTOC"
)
