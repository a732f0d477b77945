package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/droidrepo/internal/logger"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
)

// YAMLIndent is the number of spaces to use for YAML indentation.
const YAMLIndent = 2

// defaultRepoIcon is the icon file the external tool assumes when the
// config names none.
const defaultRepoIcon = "icon.png"

// Config is the editable, public subset of config.yml. Signing material
// (keystore path, passwords, key alias) exists in the file but is never
// exposed or overwritten through this type.
type Config struct {
	RepoURL         string `yaml:"repo_url,omitempty"`
	RepoName        string `yaml:"repo_name,omitempty"`
	RepoIcon        string `yaml:"repo_icon,omitempty"`
	RepoDescription string `yaml:"repo_description,omitempty"`

	ArchiveURL         string `yaml:"archive_url,omitempty"`
	ArchiveName        string `yaml:"archive_name,omitempty"`
	ArchiveIcon        string `yaml:"archive_icon,omitempty"`
	ArchiveDescription string `yaml:"archive_description,omitempty"`
	ArchiveOlder       int    `yaml:"archive_older,omitempty"`
}

// configFile is the full on-disk shape of config.yml, private fields
// included. Reads and writes always go through this type so a save never
// drops the signing material.
type configFile struct {
	SdkPath      string `yaml:"sdk_path"`
	RepoKeyalias string `yaml:"repo_keyalias"`
	Keystore     string `yaml:"keystore"`
	Keystorepass string `yaml:"keystorepass"`
	Keypass      string `yaml:"keypass"`
	Keydname     string `yaml:"keydname"`
	Apksigner    string `yaml:"apksigner,omitempty"`

	RepoURL         string `yaml:"repo_url,omitempty"`
	RepoName        string `yaml:"repo_name,omitempty"`
	RepoIcon        string `yaml:"repo_icon,omitempty"`
	RepoDescription string `yaml:"repo_description,omitempty"`

	ArchiveURL         string `yaml:"archive_url,omitempty"`
	ArchiveName        string `yaml:"archive_name,omitempty"`
	ArchiveIcon        string `yaml:"archive_icon,omitempty"`
	ArchiveDescription string `yaml:"archive_description,omitempty"`
	ArchiveOlder       int    `yaml:"archive_older,omitempty"`
}

// mergePublic returns a copy of the file with the public fields replaced.
func (f configFile) mergePublic(public Config) configFile {
	merged := f
	merged.RepoURL = public.RepoURL
	merged.RepoName = public.RepoName
	merged.RepoIcon = public.RepoIcon
	merged.RepoDescription = public.RepoDescription
	merged.ArchiveURL = public.ArchiveURL
	merged.ArchiveName = public.ArchiveName
	merged.ArchiveIcon = public.ArchiveIcon
	merged.ArchiveDescription = public.ArchiveDescription
	merged.ArchiveOlder = public.ArchiveOlder
	return merged
}

// public extracts the editable subset.
func (f configFile) public() Config {
	return Config{
		RepoURL:            f.RepoURL,
		RepoName:           f.RepoName,
		RepoIcon:           f.RepoIcon,
		RepoDescription:    f.RepoDescription,
		ArchiveURL:         f.ArchiveURL,
		ArchiveName:        f.ArchiveName,
		ArchiveIcon:        f.ArchiveIcon,
		ArchiveDescription: f.ArchiveDescription,
		ArchiveOlder:       f.ArchiveOlder,
	}
}

// Config returns the editable configuration of the repository.
func (m *Manager) Config() (Config, error) {
	file, err := m.loadConfigFile()
	if err != nil {
		return Config{}, err
	}
	return file.public(), nil
}

// SetConfig merges the public fields into config.yml and refreshes the
// published index so the change becomes visible.
func (m *Manager) SetConfig(ctx context.Context, public Config) error {
	logger.Info("updating repository configuration", logger.Fields{"repo": m.root})

	file, err := m.loadConfigFile()
	if err != nil {
		return err
	}
	if err := m.writeConfigFile(file.mergePublic(public)); err != nil {
		return err
	}
	return m.tool.Update(ctx, m.root)
}

// KeystorePassword returns the keystore password from config.yml.
func (m *Manager) KeystorePassword() (string, error) {
	file, err := m.loadConfigFile()
	if err != nil {
		return "", err
	}
	return file.Keystorepass, nil
}

// ImagePath returns the path of the repository icon inside the icons
// directory.
func (m *Manager) ImagePath() (string, error) {
	file, err := m.loadConfigFile()
	if err != nil {
		return "", err
	}
	icon := file.RepoIcon
	if icon == "" {
		icon = defaultRepoIcon
	}
	return filepath.Join(m.IconsPath(), icon), nil
}

// SetImage replaces the repository icon. The new image must have the same
// file type as the configured one.
func (m *Manager) SetImage(ctx context.Context, newImagePath string) error {
	logger.Info("setting repository image", logger.Fields{"image": newImagePath})

	imagePath, err := m.ImagePath()
	if err != nil {
		return err
	}

	newType := filepath.Ext(newImagePath)
	if newType == "" {
		return errors.Wrapf(errors.ErrInvalidPath, "image %s has no file type", newImagePath)
	}
	if !strings.EqualFold(newType, filepath.Ext(imagePath)) {
		return errors.Wrapf(errors.ErrInvalidPath, "image type should be %s, got %s",
			filepath.Ext(imagePath), newType)
	}

	if err := os.MkdirAll(filepath.Dir(imagePath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "failed to create icons directory")
	}
	if err := fsutil.Copy(newImagePath, imagePath); err != nil {
		return err
	}
	return m.tool.Update(ctx, m.root)
}

// hasConfig reports whether a config.yml exists, the marker for an already
// initialized repository.
func (m *Manager) hasConfig() bool {
	info, err := os.Stat(m.ConfigPath())
	return err == nil && info.Mode().IsRegular()
}

func (m *Manager) loadConfigFile() (configFile, error) {
	data, err := os.ReadFile(m.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return configFile{}, errors.Wrapf(errors.ErrConfigNotFound, "%s", m.ConfigPath())
		}
		return configFile{}, errors.Wrapf(err, "failed to read config file %s", m.ConfigPath())
	}

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return configFile{}, errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	return file, nil
}

// writeConfigFile atomically replaces config.yml. The file carries signing
// secrets, so temp and final files use restrictive permissions.
func (m *Manager) writeConfigFile(file configFile) (err error) {
	tmp, err := os.CreateTemp(m.root, "droidrepo-config-*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary config file")
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(fsutil.FileModeSecure); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "failed to set config file permissions")
	}

	encoder := yaml.NewEncoder(tmp)
	encoder.SetIndent(YAMLIndent)
	if err = encoder.Encode(file); err != nil {
		_ = tmp.Close()
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	if err = encoder.Close(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "failed to sync config file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close config file")
	}

	if err = os.Rename(tmp.Name(), m.ConfigPath()); err != nil {
		return errors.Wrap(err, "failed to replace config file")
	}
	return nil
}
