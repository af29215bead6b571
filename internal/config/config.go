// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	PaymentGateway          `yaml:"payment_gateway"`
	Uploads                 `yaml:"uploads"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// PaymentGateway структура с реквизитами платёжной системы и размерами взносов.
// KeySecret используется и для проверки подписи платёжного подтверждения.
type PaymentGateway struct {
	KeyID           string `yaml:"key_id"`
	KeySecret       string `yaml:"key_secret"`
	Currency        string `yaml:"currency" env-default:"INR"`
	RegistrationFee int    `yaml:"registration_fee" env-default:"1000"`
	LibraryFee      int    `yaml:"library_fee" env-default:"15000"`
}

// Uploads структура с настройками хранилища вложений.
// Пустой список AllowedTypes означает приём файлов любых типов —
// политика "принимать всё" задаётся явно в конфиге.
type Uploads struct {
	Dir          string   `yaml:"dir" env-default:"./uploads"`
	MaxSizeBytes int64    `yaml:"max_size_bytes" env-default:"10485760"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// MustLoad функция для загрузки конфига, возвращает конфиг, прочитанный
// из файла по пути CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"PaymentGateway:\n"+
			"  KeyID: %s\n"+
			"  Currency: %s\n"+
			"  RegistrationFee: %d\n"+
			"  LibraryFee: %d\n"+
			"Uploads:\n"+
			"  Dir: %s\n"+
			"  MaxSizeBytes: %d\n",
		c.Env,
		c.StorageConnectionString,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.KeyID,
		c.Currency,
		c.RegistrationFee,
		c.LibraryFee,
		c.Dir,
		c.MaxSizeBytes,
	)
}
