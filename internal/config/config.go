package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	// Generative text
	LLMProvider     string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	LLMMaxTokens    int
	GeminiAPIKey    string
	GeminiModelID   string
	BedrockModelID  string
	SystemPrompt    string
	SessionStore    string
	SessionTTL      time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisTLS        bool
	RedisKeyPrefix  string
	AppointmentZone string

	// SMS
	SMSProvider              string
	TwilioAccountSID         string
	TwilioAuthToken          string
	TwilioFromNumber         string
	TelnyxAPIKey             string
	TelnyxMessagingProfileID string
	TelnyxFromNumber         string

	// Google credentials and calendar
	ServiceAccountFile string
	ClientSecretFile   string
	TokenCacheFile     string
	CalendarAuthMode   string
	CalendarID         string

	// Speech
	SpeechLanguageCode string
	SpeechSampleRateHz int
	TTSVoiceName       string
	AudioDir           string
	AudioS3Bucket      string
	AudioS3Prefix      string

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Appointment ledger
	DatabaseURL string

	// Local voice loop
	ListenTimeout   time.Duration
	PhraseLimit     time.Duration
	EnergyThreshold float64
	CaptureCommand  string
	PlayerCommand   string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),

		LLMProvider:     strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "openai"))),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4"),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		LLMMaxTokens:    getEnvAsInt("LLM_MAX_TOKENS", 200),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:   getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		BedrockModelID:  getEnv("BEDROCK_MODEL_ID", ""),
		SystemPrompt:    getEnv("SYSTEM_PROMPT", ""),
		SessionStore:    strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", "memory"))),
		SessionTTL:      getEnvAsDuration("SESSION_TTL", 0),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisTLS:        getEnvAsBool("REDIS_TLS", false),
		RedisKeyPrefix:  getEnv("REDIS_KEY_PREFIX", "conversation"),
		AppointmentZone: getEnv("APPOINTMENT_TIMEZONE", "UTC"),

		SMSProvider:              strings.ToLower(strings.TrimSpace(getEnv("SMS_PROVIDER", "twilio"))),
		TwilioAccountSID:         getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:          getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber:         getEnv("TWILIO_PHONE_NUMBER", ""),
		TelnyxAPIKey:             getEnv("TELNYX_API_KEY", ""),
		TelnyxMessagingProfileID: getEnv("TELNYX_MESSAGING_PROFILE_ID", ""),
		TelnyxFromNumber:         getEnv("TELNYX_FROM_NUMBER", ""),

		ServiceAccountFile: getEnv("SERVICE_ACCOUNT_FILE", "service_account.json"),
		ClientSecretFile:   getEnv("CLIENT_SECRET_FILE", "credentials.json"),
		TokenCacheFile:     getEnv("TOKEN_CACHE_FILE", "token.json"),
		CalendarAuthMode:   strings.ToLower(strings.TrimSpace(getEnv("CALENDAR_AUTH_MODE", "service_account"))),
		CalendarID:         getEnv("CALENDAR_ID", "primary"),

		SpeechLanguageCode: getEnv("SPEECH_LANGUAGE_CODE", "en-US"),
		SpeechSampleRateHz: getEnvAsInt("SPEECH_SAMPLE_RATE_HZ", 16000),
		TTSVoiceName:       getEnv("TTS_VOICE_NAME", "en-US-Wavenet-D"),
		AudioDir:           getEnv("AUDIO_DIR", "audio"),
		AudioS3Bucket:      getEnv("AUDIO_S3_BUCKET", ""),
		AudioS3Prefix:      getEnv("AUDIO_S3_PREFIX", "synthesized"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		ListenTimeout:   getEnvAsDuration("LISTEN_TIMEOUT", 5*time.Second),
		PhraseLimit:     getEnvAsDuration("PHRASE_TIME_LIMIT", 10*time.Second),
		EnergyThreshold: getEnvAsFloat("LISTEN_ENERGY_THRESHOLD", 500),
		CaptureCommand:  getEnv("CAPTURE_COMMAND", "arecord"),
		PlayerCommand:   getEnv("PLAYER_COMMAND", "mpg123"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
