package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

func init() {
	Conf = viper.New()

	// defaults
	Conf.SetTypeByDefaultValue(true)
	Conf.SetDefault("debug", true)
	Conf.SetDefault("testMode", false)
	Conf.SetDefault("appName", "Shule")
	Conf.SetDefault("secretKey", "w#v8^t1b$+yq=dz&u0xh2(h!x)#*c2(#yg4h^$cegm2emy")
	Conf.SetDefault("serverAddress", ":8000")
	Conf.SetDefault("jwtExpirationDelta", 24*time.Hour)
	Conf.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	Conf.SetDefault("rollbarToken", "")
	Conf.SetDefault("migrationsDir", "migrations")
	Conf.SetDefault("database.engine", "postgres")
	Conf.SetDefault("database.name", "shule")
	Conf.SetDefault("database.host", "localhost")
	Conf.SetDefault("database.port", "5432")
	Conf.SetDefault("database.user", "postgres")
	Conf.SetDefault("database.password", "")
	Conf.SetDefault("database.disableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		Conf.SetDefault("testMode", true)
	}
	Conf.SetDefault("env", env)
	Conf.SetEnvPrefix(env)
	Conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	Conf.AutomaticEnv()
}
