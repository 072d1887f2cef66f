package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"policy-training-assistant/internal/model"
)

// Config holds all service configuration. It is loaded once at startup and
// treated as immutable afterwards; reloads must swap the whole object.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	RateLimit  RateLimitConfig

	// Policy assistant specifics
	Qdrant    QdrantConfig
	Voyage    VoyageConfig
	Records   RecordsConfig
	Retrieval RetrievalConfig
	Router    RouterConfig
	Keywords  KeywordConfig
	Guard     GuardConfig

	// LLM Provider Abstraction
	LLM LLMConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type RateLimitConfig struct {
	PerMinute int // Sustained requests per minute per client
	Burst     int
}

type QdrantConfig struct {
	URL        string
	VectorSize int
}

type VoyageConfig struct {
	APIKey string
	Model  string
}

// RecordsConfig points at the training-records backend used for
// BACKEND_LOOKUP / MIXED routes.
type RecordsConfig struct {
	URL         string
	AccessToken string
}

// RetrievalConfig tunes the retrieval orchestrator and the low-relevance gate.
type RetrievalConfig struct {
	DefaultK       int
	RetryK         int // Widened budget for the single empty-result retry
	ScoreThreshold float64
	// Scopes maps a system domain to the Qdrant collection searched for it.
	// Every domain in model.AllDomains must have an entry.
	Scopes map[model.Domain]string
}

type RouterConfig struct {
	UseLLM    bool // Prefer the LLM classifier, rules stay the fallback
	CacheSize int  // LRU entries for route-decision caching
}

// KeywordConfig holds the anchor-extraction vocabulary. Entries shorter than
// MinTokenLength are rejected at load time, not silently filtered per call.
type KeywordConfig struct {
	Stopwords          []string
	ActionTokens       []string
	ActionSuffix       string // Anchored regex stripped from token tails
	PIIPlaceholders    []string
	MinTokenLength     int
	actionSuffixRegexp *regexp.Regexp
}

// ActionSuffixRegexp returns the compiled suffix pattern.
func (k KeywordConfig) ActionSuffixRegexp() *regexp.Regexp {
	return k.actionSuffixRegexp
}

// GuardConfig tunes the answer guard.
type GuardConfig struct {
	StrictAnswerability bool
	// DomainContacts maps a system domain to a department contact string.
	DomainContacts map[model.Domain]string
	// TopicContacts maps a finer content topic to a contact string and takes
	// precedence over DomainContacts. Kept separate on purpose: mixing the two
	// key spaces in one table previously mis-attributed departments.
	TopicContacts map[string]string
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      string           `yaml:"retry_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"` // Global timeout for the whole fallback chain
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")
	cfg.RateLimit.PerMinute = viper.GetInt("rate_limit.per_minute")
	cfg.RateLimit.Burst = viper.GetInt("rate_limit.burst")

	// Qdrant / Voyage
	cfg.Qdrant.URL = viper.GetString("qdrant.url")
	cfg.Qdrant.VectorSize = viper.GetInt("qdrant.vector_size")
	if qdrantURL := viper.GetString("qdrant_url"); qdrantURL != "" {
		cfg.Qdrant.URL = qdrantURL
	}
	cfg.Voyage.APIKey = viper.GetString("voyage.api_key")
	cfg.Voyage.Model = viper.GetString("voyage.model")
	if voyageKey := viper.GetString("voyage_api_key"); voyageKey != "" {
		cfg.Voyage.APIKey = voyageKey
	}

	// Records backend
	cfg.Records.URL = viper.GetString("records.url")
	cfg.Records.AccessToken = viper.GetString("records.access_token")
	if recordsToken := viper.GetString("records_access_token"); recordsToken != "" {
		cfg.Records.AccessToken = recordsToken
	}

	// Retrieval
	cfg.Retrieval.DefaultK = viper.GetInt("retrieval.default_k")
	cfg.Retrieval.RetryK = viper.GetInt("retrieval.retry_k")
	cfg.Retrieval.ScoreThreshold = viper.GetFloat64("retrieval.score_threshold")
	cfg.Retrieval.Scopes = map[model.Domain]string{}
	for domain, scope := range viper.GetStringMapString("retrieval.scopes") {
		cfg.Retrieval.Scopes[model.Domain(strings.ToUpper(domain))] = scope
	}
	if err := validateScopes(cfg.Retrieval.Scopes); err != nil {
		return nil, err
	}
	if cfg.Retrieval.RetryK <= cfg.Retrieval.DefaultK {
		return nil, fmt.Errorf("retrieval.retry_k (%d) must be greater than retrieval.default_k (%d)",
			cfg.Retrieval.RetryK, cfg.Retrieval.DefaultK)
	}

	// Router
	cfg.Router.UseLLM = viper.GetBool("router.use_llm")
	cfg.Router.CacheSize = viper.GetInt("router.cache_size")

	// Keywords
	kw, err := loadKeywordConfig()
	if err != nil {
		return nil, err
	}
	cfg.Keywords = kw

	// Guard
	cfg.Guard.StrictAnswerability = viper.GetBool("guard.strict_answerability")
	cfg.Guard.DomainContacts = map[model.Domain]string{}
	for domain, contact := range viper.GetStringMapString("guard.domain_contacts") {
		cfg.Guard.DomainContacts[model.Domain(strings.ToUpper(domain))] = contact
	}
	cfg.Guard.TopicContacts = viper.GetStringMapString("guard.topic_contacts")
	if err := validateContacts(cfg.Guard.DomainContacts); err != nil {
		return nil, err
	}

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = viper.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = viper.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")
	cfg.LLM.Providers = loadProviders()

	if len(cfg.LLM.Providers) == 0 {
		return nil, fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}

	return cfg, nil
}

// validateScopes rejects startup when a domain has no collection mapping.
func validateScopes(scopes map[model.Domain]string) error {
	for _, domain := range model.AllDomains {
		if scopes[domain] == "" {
			return fmt.Errorf("retrieval.scopes: missing collection mapping for domain %s", domain)
		}
	}
	return nil
}

// validateContacts rejects startup when a domain has no contact mapping.
func validateContacts(contacts map[model.Domain]string) error {
	for _, domain := range model.AllDomains {
		if contacts[domain] == "" {
			return fmt.Errorf("guard.domain_contacts: missing contact for domain %s", domain)
		}
	}
	return nil
}

// loadKeywordConfig builds the validated keyword vocabulary from viper.
func loadKeywordConfig() (KeywordConfig, error) {
	return NewKeywordConfig(
		viper.GetStringSlice("keywords.stopwords"),
		viper.GetStringSlice("keywords.action_tokens"),
		viper.GetString("keywords.action_suffix"),
		viper.GetStringSlice("keywords.pii_placeholders"),
		viper.GetInt("keywords.min_token_length"),
	)
}

// NewKeywordConfig validates and compiles a keyword vocabulary. Entries
// shorter than the minimum length are a config mistake and fail the load
// instead of being filtered silently per call.
func NewKeywordConfig(stopwords, actionTokens []string, actionSuffix string, piiPlaceholders []string, minTokenLength int) (KeywordConfig, error) {
	kw := KeywordConfig{
		Stopwords:       stopwords,
		ActionTokens:    actionTokens,
		ActionSuffix:    actionSuffix,
		PIIPlaceholders: piiPlaceholders,
		MinTokenLength:  minTokenLength,
	}

	if kw.MinTokenLength < 1 {
		kw.MinTokenLength = 2
	}

	for _, list := range [][]string{kw.Stopwords, kw.ActionTokens} {
		for _, entry := range list {
			if len([]rune(entry)) < kw.MinTokenLength {
				return KeywordConfig{}, fmt.Errorf("keywords: entry %q is shorter than min_token_length %d",
					entry, kw.MinTokenLength)
			}
		}
	}

	re, err := regexp.Compile(kw.ActionSuffix)
	if err != nil {
		return KeywordConfig{}, fmt.Errorf("keywords.action_suffix: invalid pattern: %w", err)
	}
	kw.actionSuffixRegexp = re

	return kw, nil
}

// loadProviders reads the llm.providers list.
func loadProviders() []ProviderConfig {
	var providers []ProviderConfig
	if !viper.IsSet("llm.providers") {
		return providers
	}
	providersRaw := viper.Get("llm.providers")
	providersList, ok := providersRaw.([]interface{})
	if !ok {
		return providers
	}
	for _, p := range providersList {
		providerMap, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		providers = append(providers, ProviderConfig{
			Name:     getStringFromMap(providerMap, "name"),
			Enabled:  getBoolFromMap(providerMap, "enabled"),
			Priority: getIntFromMap(providerMap, "priority"),
			APIKey:   expandEnvVar(getStringFromMap(providerMap, "api_key")),
			BaseURL:  getStringFromMap(providerMap, "base_url"),
			Model:    getStringFromMap(providerMap, "model"),
			Timeout:  getStringFromMap(providerMap, "timeout"),
		})
	}
	return providers
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("rate_limit.per_minute", 60)
	viper.SetDefault("rate_limit.burst", 10)

	viper.SetDefault("qdrant.vector_size", 1024)
	viper.SetDefault("voyage.model", "voyage-3")

	viper.SetDefault("retrieval.default_k", 5)
	viper.SetDefault("retrieval.retry_k", 10)
	viper.SetDefault("retrieval.score_threshold", 0.55)
	viper.SetDefault("retrieval.scopes", map[string]string{
		"policy":    "internal-regulations",
		"education": "training-content",
		"incident":  "incident-reports",
		"general":   "general-notices",
	})

	viper.SetDefault("router.use_llm", false)
	viper.SetDefault("router.cache_size", 512)

	// Anchor-extraction vocabulary. Action tokens are imperative/request
	// forms that must never act as relevance anchors; stopwords are
	// domain-generic fillers ("규정" echoes in nearly every document title).
	viper.SetDefault("keywords.min_token_length", 2)
	viper.SetDefault("keywords.stopwords", []string{
		"규정", "정책", "내용", "관련", "대해", "대한", "무엇", "어떻게", "언제",
		"the", "an", "is", "are", "of", "for", "about", "what", "how", "when",
	})
	viper.SetDefault("keywords.action_tokens", []string{
		"알려줘", "알려주세요", "설명해줘", "설명해주세요", "요약해줘", "요약해주세요",
		"보여줘", "보여주세요", "찾아줘", "찾아주세요", "궁금해요", "부탁해요",
		"tell", "show", "explain", "summarize", "find", "please",
	})
	viper.SetDefault("keywords.action_suffix", `(알려줘|알려주세요|해줘|해주세요|summarize|explain|show|find|for-me|me)$`)
	viper.SetDefault("keywords.pii_placeholders", []string{
		"[이름]", "[전화번호]", "[이메일]", "[주소]", "[날짜]", "[소속]", "[주민등록번호]", "[계좌번호]",
	})

	viper.SetDefault("guard.strict_answerability", false)
	viper.SetDefault("guard.domain_contacts", map[string]string{
		"policy":    "인사팀 (people@company.example)",
		"education": "교육운영팀 (learning@company.example)",
		"incident":  "정보보안팀 (security@company.example)",
		"general":   "총무팀 (ga@company.example)",
	})
	viper.SetDefault("guard.topic_contacts", map[string]string{
		"연차":   "인사팀 근태파트 (leave@company.example)",
		"휴가":   "인사팀 근태파트 (leave@company.example)",
		"급여":   "급여파트 (payroll@company.example)",
		"보안":   "정보보안팀 (security@company.example)",
		"법정교육": "교육운영팀 (learning@company.example)",
	})

	// LLM defaults
	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.retry_attempts", 3)
	viper.SetDefault("llm.retry_delay", "1s")
	viper.SetDefault("llm.max_total_timeout", "60s")
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
	}

	return value
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
		// Handle float64 from JSON unmarshaling
		if f, ok := val.(float64); ok {
			return int(f)
		}
	}
	return 0
}
