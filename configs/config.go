package configs

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	MongoURI             string
	DBName               string
	JWTSecret            string
	AdminId              string
	AdminName            string
	AdminPassword        string
	SweepIntervalMinutes int
	EditLockTTLMinutes   int
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var sweepIntervalMinutes, editLockTTLMinutes int

	fmt.Sscanf(os.Getenv("SWEEP_INTERVAL_MINUTES"), "%d", &sweepIntervalMinutes)
	fmt.Sscanf(os.Getenv("EDIT_LOCK_TTL_MINUTES"), "%d", &editLockTTLMinutes)

	if sweepIntervalMinutes <= 0 {
		sweepIntervalMinutes = 60
	}
	if editLockTTLMinutes <= 0 {
		editLockTTLMinutes = 5
	}

	return Config{
		Port:                 os.Getenv("PORT"),
		MongoURI:             os.Getenv("MONGO_URI"),
		DBName:               os.Getenv("DB_NAME"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AdminId:              os.Getenv("HARD_CODED_ADMIN_ID"),
		AdminName:            os.Getenv("HARD_CODED_ADMIN_NAME"),
		AdminPassword:        os.Getenv("HARD_CODED_ADMIN_PASSWORD"),
		SweepIntervalMinutes: sweepIntervalMinutes,
		EditLockTTLMinutes:   editLockTTLMinutes,
	}
}
