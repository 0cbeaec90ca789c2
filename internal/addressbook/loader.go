// Package addressbook loads the phone/email pairs that feed the relay
// address book. Sources are an INI or YAML file and a Redis hash.
package addressbook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sms_relay_backend/internal/relay"
	"sms_relay_backend/platform/config"
	"sms_relay_backend/platform/logger"
	"sms_relay_backend/platform/phone"

	"github.com/go-ini/ini"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// SectionUsers is the INI section and YAML key that hold the pairs.
const SectionUsers = "users"

type yamlFile struct {
	Users map[string]string `yaml:"users"`
}

// Load builds the address book from Redis when a URL is configured and from
// the configured file otherwise.
func Load(ctx context.Context, cfg config.AddressBookConfig, region string, log *logger.Logger) (*relay.AddressBook, error) {
	var (
		entries []relay.Entry
		err     error
	)

	if url := cfg.GetAddressBookRedisURL(); url != "" {
		opt, parseErr := redis.ParseURL(url)
		if parseErr != nil {
			return nil, fmt.Errorf("parse address book redis url: %w", parseErr)
		}
		client := redis.NewClient(opt)
		defer client.Close()

		entries, err = LoadRedis(ctx, client, cfg.GetAddressBookRedisKey(), region)
	} else {
		entries, err = LoadFile(cfg.GetAddressBookPath(), region, log)
	}
	if err != nil {
		return nil, err
	}

	return relay.NewAddressBook(entries), nil
}

// LoadFile reads pairs from an INI ([users] section) or YAML (users: map)
// file, chosen by extension. A missing file yields no entries.
func LoadFile(path, region string, log *logger.Logger) ([]relay.Entry, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("address book file not found, starting with an empty address book", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("stat address book: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path, region)
	default:
		return loadINI(path, region)
	}
}

func loadINI(path, region string) ([]relay.Entry, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse address book %s: %w", path, err)
	}

	section, err := file.GetSection(SectionUsers)
	if err != nil {
		return nil, nil
	}

	keys := section.Keys()
	entries := make([]relay.Entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, entry(key.Name(), key.String(), region))
	}
	return entries, nil
}

func loadYAML(path, region string) ([]relay.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read address book %s: %w", path, err)
	}

	var doc yamlFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse address book %s: %w", path, err)
	}
	return fromMap(doc.Users, region), nil
}

// LoadRedis reads pairs from a hash whose fields are phone numbers and whose
// values are email addresses.
func LoadRedis(ctx context.Context, client redis.Cmdable, key, region string) ([]relay.Entry, error) {
	pairs, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("read address book hash %s: %w", key, err)
	}
	return fromMap(pairs, region), nil
}

// fromMap sorts phones so shared addresses resolve the same way on every load.
func fromMap(pairs map[string]string, region string) []relay.Entry {
	phones := make([]string, 0, len(pairs))
	for p := range pairs {
		phones = append(phones, p)
	}
	sort.Strings(phones)

	entries := make([]relay.Entry, 0, len(phones))
	for _, p := range phones {
		entries = append(entries, entry(p, pairs[p], region))
	}
	return entries
}

func entry(rawPhone, email, region string) relay.Entry {
	return relay.Entry{
		Phone: relay.PhoneNumber(phone.NormalizeE164(rawPhone, region)),
		Email: relay.EmailAddress(strings.TrimSpace(email)),
	}
}
