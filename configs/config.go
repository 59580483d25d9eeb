package configs

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Config struct {
	Port          string
	MongoURI      string
	DBName        string
	JWTSecret     string
	JWTExpiration time.Duration
	Env           string
	LogLevel      string
	UserId        string
	UserName      string
	UserPassword  string
	StoreTimeout  time.Duration
	MQTT          MQTTConfig
}

// MQTTConfig controls the gateway event subscriber. It stays idle unless Enabled.
type MQTTConfig struct {
	Enabled     bool
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	qos := getEnvAsInt("MQTT_QOS", 1)
	if qos < 0 || qos > 2 {
		log.Printf("Invalid MQTT_QOS %d, falling back to 1", qos)
		qos = 1
	}

	return Config{
		Port:          getEnv("PORT", "3000"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:        getEnv("DB_NAME", "iot-monitoring"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: time.Duration(getEnvAsInt("JWT_EXPIRATION_MINUTES", 30)) * time.Minute,
		Env:           getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		UserId:        os.Getenv("HARD_CODED_USER_ID"),
		UserName:      os.Getenv("HARD_CODED_USER_NAME"),
		UserPassword:  os.Getenv("HARD_CODED_USER_PASSWORD"),
		StoreTimeout:  getEnvAsDuration("STORE_TIMEOUT", 5*time.Second),
		MQTT: MQTTConfig{
			Enabled:     getEnvAsBool("MQTT_ENABLED", false),
			BrokerURL:   getEnv("MQTT_BROKER_URL", "tcp://localhost:1883"),
			ClientID:    getEnv("MQTT_CLIENT_ID", "iot-monitoring-backend"),
			Username:    os.Getenv("MQTT_USERNAME"),
			Password:    os.Getenv("MQTT_PASSWORD"),
			TopicPrefix: strings.TrimSuffix(getEnv("MQTT_TOPIC_PREFIX", "iot"), "/"),
			QoS:         byte(qos),
		},
	}
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if _, err := primitive.ObjectIDFromHex(c.UserId); err != nil {
		errs = append(errs, fmt.Errorf("HARD_CODED_USER_ID must be a 24-character hex ObjectID, got %q", c.UserId))
	}
	if c.UserName == "" || c.UserPassword == "" {
		errs = append(errs, errors.New("HARD_CODED_USER_NAME and HARD_CODED_USER_PASSWORD are required"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
