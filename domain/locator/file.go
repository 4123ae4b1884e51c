package locator

// File is the minimal descriptor of a remote Drive file: enough to
// identify it, display it, and decide how its content should be fetched.
type File struct {
	ID       string
	Name     string
	MimeType string
	Size     int64
}

// Drive identifies a shared drive by ID and display name.
type Drive struct {
	ID   string
	Name string
}
