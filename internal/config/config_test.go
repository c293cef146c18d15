package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// setRequired sets the two env vars every Load() needs.
func setRequired(t *testing.T) {
	t.Helper()
	os.Setenv("AZURE_ACCOUNT_URL", "https://example.blob.core.windows.net")
	os.Setenv("AZURE_CONTAINER", "shared")
	t.Cleanup(func() {
		os.Unsetenv("AZURE_ACCOUNT_URL")
		os.Unsetenv("AZURE_CONTAINER")
	})
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Dataset.DataPrefix != "salsify-product-info/" {
		t.Errorf("Dataset.DataPrefix = %q, want %q", cfg.Dataset.DataPrefix, "salsify-product-info/")
	}
	if cfg.Dataset.PartitionFile != "data_0.parquet" {
		t.Errorf("Dataset.PartitionFile = %q, want %q", cfg.Dataset.PartitionFile, "data_0.parquet")
	}
	if cfg.Publish.ExportKey != "salsify-sftp/hbb_salsify.xlsx" {
		t.Errorf("Publish.ExportKey = %q, want %q", cfg.Publish.ExportKey, "salsify-sftp/hbb_salsify.xlsx")
	}
	if cfg.Publish.VendorFile != "salsify.xlsx" {
		t.Errorf("Publish.VendorFile = %q, want %q", cfg.Publish.VendorFile, "salsify.xlsx")
	}
	if cfg.Upload.MaxTitleLength != 100 {
		t.Errorf("Upload.MaxTitleLength = %d, want %d", cfg.Upload.MaxTitleLength, 100)
	}
	if cfg.Rate.RequestsPerMinute != 120 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 120)
	}

	want := []string{"active", "New", "Obsolete"}
	if len(cfg.Dataset.Statuses) != len(want) {
		t.Fatalf("Dataset.Statuses = %v, want %v", cfg.Dataset.Statuses, want)
	}
	for i, s := range want {
		if cfg.Dataset.Statuses[i] != s {
			t.Errorf("Dataset.Statuses[%d] = %q, want %q", i, cfg.Dataset.Statuses[i], s)
		}
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	setRequired(t)
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("UPLOAD_MAX_TITLE_LENGTH", "80")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("UPLOAD_MAX_TITLE_LENGTH")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Upload.MaxTitleLength != 80 {
		t.Errorf("Upload.MaxTitleLength = %d, want %d", cfg.Upload.MaxTitleLength, 80)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	// The legacy secret names must keep working.
	os.Setenv("AZURE_ACCOUNT_URL", "https://example.blob.core.windows.net")
	os.Setenv("AZ_CONTAINER", "legacy-container")
	os.Setenv("SALSIFY_HOSTNAME", "ftp.example.com")
	os.Setenv("SALSIFY_USERNAME", "feeduser")
	os.Setenv("SALSIFY_PASSWORD", "feedpass")
	defer func() {
		os.Unsetenv("AZURE_ACCOUNT_URL")
		os.Unsetenv("AZ_CONTAINER")
		os.Unsetenv("SALSIFY_HOSTNAME")
		os.Unsetenv("SALSIFY_USERNAME")
		os.Unsetenv("SALSIFY_PASSWORD")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Azure.Container != "legacy-container" {
		t.Errorf("Azure.Container = %q, want %q", cfg.Azure.Container, "legacy-container")
	}
	if cfg.Transfer.Host != "ftp.example.com" {
		t.Errorf("Transfer.Host = %q, want %q", cfg.Transfer.Host, "ftp.example.com")
	}
	if cfg.Transfer.User != "feeduser" {
		t.Errorf("Transfer.User = %q, want %q", cfg.Transfer.User, "feeduser")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("AZURE_ACCOUNT_URL")
	os.Unsetenv("AZ_ACCOUNT_URL")
	os.Unsetenv("AZURE_CONTAINER")
	os.Unsetenv("AZ_CONTAINER")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for missing AZURE_ACCOUNT_URL")
	}
}

func TestLoad_Duration(t *testing.T) {
	setRequired(t)
	os.Setenv("SERVER_READ_TIMEOUT", "45s")
	os.Setenv("AZURE_OP_TIMEOUT", "1m30s")
	defer func() {
		os.Unsetenv("SERVER_READ_TIMEOUT")
		os.Unsetenv("AZURE_OP_TIMEOUT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Azure.OpTimeout != 90*time.Second {
		t.Errorf("Azure.OpTimeout = %v, want %v", cfg.Azure.OpTimeout, 90*time.Second)
	}
}

func TestLoad_NormalizesKeyLayout(t *testing.T) {
	setRequired(t)
	os.Setenv("AZURE_ACCOUNT_URL", "https://example.blob.core.windows.net/")
	os.Setenv("DATA_PREFIX", "product-info")
	os.Setenv("PARTITION_DIR", "/app-data/pig-info-table.parquet/")
	os.Setenv("PUBLISH_HISTORY_PREFIX", "sftp/history")
	defer func() {
		os.Unsetenv("DATA_PREFIX")
		os.Unsetenv("PARTITION_DIR")
		os.Unsetenv("PUBLISH_HISTORY_PREFIX")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Azure.AccountURL != "https://example.blob.core.windows.net" {
		t.Errorf("AccountURL = %q, want trailing slash trimmed", cfg.Azure.AccountURL)
	}
	if cfg.Dataset.DataPrefix != "product-info/" {
		t.Errorf("DataPrefix = %q, want %q", cfg.Dataset.DataPrefix, "product-info/")
	}
	if cfg.Dataset.PartitionDir != "app-data/pig-info-table.parquet" {
		t.Errorf("PartitionDir = %q, want slashes trimmed", cfg.Dataset.PartitionDir)
	}
	if cfg.Publish.HistoryPrefix != "sftp/history/" {
		t.Errorf("HistoryPrefix = %q, want %q", cfg.Publish.HistoryPrefix, "sftp/history/")
	}
}

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Azure:   AzureConfig{AccountURL: "https://example.blob.core.windows.net", Container: "shared", OpTimeout: time.Minute},
		Dataset: DatasetConfig{PartitionDir: "app-data/pig-info-table.parquet", PartitionFile: "data_0.parquet", Statuses: []string{"active"}},
		Publish: PublishConfig{ExportKey: "salsify-sftp/hbb_salsify.xlsx", VendorFile: "salsify.xlsx", ExportFile: "hbb_salsify.xlsx"},
		Upload:  UploadConfig{MaxFileSize: 1, MaxTitleLength: 100},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 120},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 99999

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid port")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error should mention SERVER_PORT: %v", err)
	}
}

func TestValidate_TransferNeedsCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Transfer = TransferConfig{Host: "ftp.example.com", Port: 21}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for FTP host without credentials")
	}
	if !strings.Contains(err.Error(), "FTP_USER") || !strings.Contains(err.Error(), "FTP_PASSWORD") {
		t.Errorf("error should mention FTP_USER and FTP_PASSWORD: %v", err)
	}

	// An empty host is fine: publish is simply unavailable.
	cfg.Transfer = TransferConfig{}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with no transfer host: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestTransferAddr(t *testing.T) {
	cfg := &TransferConfig{Host: "ftp.example.com", Port: 21}
	if got, want := cfg.Addr(), "ftp.example.com:21"; got != want {
		t.Errorf("Addr() = %q, want %q", got, want)
	}
}

func TestConfigString_MasksSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Azure.SASToken = "sv=2024&sig=topsecret"
	cfg.Transfer.Password = "hunter2"

	str := cfg.String()
	if strings.Contains(str, "topsecret") || strings.Contains(str, "hunter2") {
		t.Error("String() should mask the SAS token and FTP password")
	}
	if !strings.Contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}
