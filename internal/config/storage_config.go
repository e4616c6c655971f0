package config

type Storage struct {
	TokenFile  string `env:"BOOKING_TOKEN_FILE" envDefault:"./data/session.json"`
	StorageKey string `env:"BOOKING_STORAGE_KEY"` // Optional 32 byte key, seals the token file when set
}

var _ StorageConfig = Storage{}

func (s Storage) GetTokenFile() string {
	return s.TokenFile
}

func (s Storage) GetStorageKey() string {
	return s.StorageKey
}
