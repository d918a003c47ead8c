package domain

// DBCredentials holds the connection settings of a site database.
type DBCredentials struct {
	Name     string
	User     string
	Password string `json:"-"`
	Host     string
	Port     int
	Socket   string
}

// Empty reports whether no database name was found.
func (c DBCredentials) Empty() bool {
	return c.Name == ""
}

// Site is one WordPress installation to back up.
type Site struct {
	Name string
	Path string
	// DB overrides credentials read from wp-config.php when non-empty.
	DB DBCredentials
}

// ArchiveEntry is one path packed into a site archive.
type ArchiveEntry struct {
	// Name is the path inside the archive.
	Name string
	// Path is the local file or directory to pack.
	Path string
}

// Archive member names used inside every site archive.
const (
	ArchiveDatabaseDump = "database.sql"
	ArchiveContentDir   = "site"
	ArchiveRunLog       = "backup.log"
)
