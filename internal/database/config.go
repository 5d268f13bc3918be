package database

type Config struct {
	// Path to the bolt file holding sessions, scores and users
	FilePath string `envconfig:"DARES_DB_FILE_PATH" default:"daresbot.db"`
}
