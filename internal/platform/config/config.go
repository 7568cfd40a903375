// Package config loads service configuration from the environment (and an
// optional YAML file) via cleanenv, validated once at startup. Options structs
// are immutable after load; inject them by value.
package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	id "fellgate/pkg/domain"
)

type Config struct {
	HTTP            HTTP            `yaml:"http"`
	Database        Database        `yaml:"database"`
	Kafka           Kafka           `yaml:"kafka"`
	LandInformation LandInformation `yaml:"land_information"`
	Auth            Auth            `yaml:"auth"`
	Upload          Upload          `yaml:"upload"`
	Invite          Invite          `yaml:"invite"`
	FcAgency        FcAgency        `yaml:"fc_agency"`
}

type HTTP struct {
	Addr string `yaml:"addr" env:"FELLGATE_ADDR" env-default:":8080"`
}

type Database struct {
	// URL empty means in-memory stores; useful for dev and tests.
	URL string `yaml:"url" env:"DATABASE_URL"`
}

type Kafka struct {
	// Brokers empty disables the audit outbox relay and the PAWS check consumer.
	Brokers    string `yaml:"brokers" env:"KAFKA_BROKERS"`
	AuditTopic string `yaml:"audit_topic" env:"KAFKA_AUDIT_TOPIC" env-default:"fellgate.audit"`
	PawsTopic  string `yaml:"paws_topic" env:"KAFKA_PAWS_TOPIC" env-default:"fellgate.paws-check"`
}

type LandInformation struct {
	// BaseURL empty disables the PAWS check consumer.
	BaseURL string `yaml:"base_url" env:"LAND_INFO_BASE_URL"`
}

type Auth struct {
	JWTSigningKey string `yaml:"jwt_signing_key" env:"JWT_SIGNING_KEY" env-default:"dev-secret-key-change-in-production"`
}

// AllowedFileType maps a set of upload reasons to the extensions permitted for
// them, mirroring the upload allow-list options the controllers rely on.
type AllowedFileType struct {
	FileUploadReasons []string `yaml:"file_upload_reasons"`
	Description       string   `yaml:"description"`
	Extensions        []string `yaml:"extensions"`
}

type Upload struct {
	MaxNumberDocuments int               `yaml:"max_number_documents" env:"UPLOAD_MAX_NUMBER_DOCUMENTS" env-default:"50"`
	MaxFileSizeBytes   int64             `yaml:"max_file_size_bytes" env:"UPLOAD_MAX_FILE_SIZE_BYTES" env-default:"33554432"`
	AllowedFileTypes   []AllowedFileType `yaml:"allowed_file_types"`
}

type Invite struct {
	LinkExpiryDays int    `yaml:"link_expiry_days" env:"INVITE_LINK_EXPIRY_DAYS" env-default:"7"`
	BaseURL        string `yaml:"base_url" env:"INVITE_BASE_URL" env-default:"http://localhost:8080/invite/accept"`
}

type FcAgency struct {
	// PermittedEmailDomains gates automatic assignment of newly approved FC
	// staff to the FC agency.
	PermittedEmailDomains []string `yaml:"permitted_email_domains" env:"FC_PERMITTED_EMAIL_DOMAINS" env-separator:","`
}

// Load reads configuration from path (when non-empty) and the environment.
func Load(path string) (Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(cfg.Upload.AllowedFileTypes) == 0 {
		cfg.Upload.AllowedFileTypes = defaultAllowedFileTypes()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Upload.MaxNumberDocuments <= 0 {
		return fmt.Errorf("upload.max_number_documents must be positive")
	}
	if c.Upload.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("upload.max_file_size_bytes must be positive")
	}
	if c.Invite.LinkExpiryDays <= 0 {
		return fmt.Errorf("invite.link_expiry_days must be positive")
	}
	for _, ft := range c.Upload.AllowedFileTypes {
		if len(ft.Extensions) == 0 {
			return fmt.Errorf("allowed file type %q lists no extensions", ft.Description)
		}
	}
	return nil
}

// ExtensionsFor returns the allow-listed extensions (lower case, no dot) for an
// upload reason. An empty result means nothing is permitted for that reason.
func (u Upload) ExtensionsFor(reason id.FileUploadReason) []string {
	var out []string
	for _, ft := range u.AllowedFileTypes {
		for _, r := range ft.FileUploadReasons {
			if strings.EqualFold(r, string(reason)) {
				for _, ext := range ft.Extensions {
					out = append(out, strings.ToLower(strings.TrimPrefix(ext, ".")))
				}
			}
		}
	}
	return out
}

func defaultAllowedFileTypes() []AllowedFileType {
	return []AllowedFileType{
		{
			FileUploadReasons: []string{string(id.UploadReasonSupportingDocument), string(id.UploadReasonEiaAttachment)},
			Description:       "Documents and images",
			Extensions:        []string{"pdf", "doc", "docx", "jpg", "jpeg", "png"},
		},
		{
			FileUploadReasons: []string{string(id.UploadReasonAgentAuthorityForm)},
			Description:       "Agent authority forms",
			Extensions:        []string{"pdf", "doc", "docx"},
		},
	}
}
