// Package update replaces the running executable with the latest GitHub
// release. The new binary takes effect on the next launch.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const ReleaseURL = "https://api.github.com/repos/alex-vit/hdrbright/releases/latest"

// ErrNoAsset means the latest release carries no binary for us.
var ErrNoAsset = errors.New("update: release has no matching asset")

type release struct {
	TagName string  `json:"tag_name"`
	Assets  []asset `json:"assets"`
}

type asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Updater checks ReleaseURL for a release newer than Current and installs
// its Asset over Exe.
type Updater struct {
	ReleaseURL string
	Asset      string
	Current    string
	Exe        string
	Client     *http.Client
}

// New returns an Updater for the running executable.
func New(current string) (*Updater, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return &Updater{
		ReleaseURL: ReleaseURL,
		Asset:      "hdrbright.exe",
		Current:    current,
		Exe:        exe,
		Client:     http.DefaultClient,
	}, nil
}

// Run checks, downloads and applies in one go. It reports the installed
// version, or "" when already up to date.
func (u *Updater) Run(ctx context.Context) (string, error) {
	latest, url, err := u.Check(ctx)
	if err != nil || url == "" {
		return "", err
	}
	log.Info().Str("version", latest).Msg("update: available")
	tmp, err := u.Download(ctx, url)
	if err != nil {
		return "", err
	}
	if err := u.Apply(tmp); err != nil {
		return "", err
	}
	return latest, nil
}

// Check returns the latest version and its asset URL when it is newer than
// Current. Both are empty when there is nothing to install.
func (u *Updater) Check(ctx context.Context) (latest, downloadURL string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.ReleaseURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := u.Client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("update: release query returned %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", fmt.Errorf("update: decode release: %w", err)
	}
	latest = strings.TrimPrefix(rel.TagName, "v")
	if !IsNewer(latest, u.Current) {
		log.Debug().Str("latest", latest).Str("current", u.Current).Msg("update: up to date")
		return "", "", nil
	}
	for _, a := range rel.Assets {
		if strings.EqualFold(a.Name, u.Asset) {
			return latest, a.BrowserDownloadURL, nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrNoAsset, rel.TagName)
}

// Download fetches url into Exe+".tmp".
func (u *Updater) Download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := u.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("update: download returned %d", resp.StatusCode)
	}

	tmp := u.Exe + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return tmp, nil
}

// Apply swaps tmp in for Exe. Windows allows renaming a running executable
// but not overwriting it, so the old one is parked as Exe+".old".
func (u *Updater) Apply(tmp string) error {
	old := u.Exe + ".old"
	if err := os.Rename(u.Exe, old); err != nil {
		return fmt.Errorf("update: park current binary: %w", err)
	}
	if err := os.Rename(tmp, u.Exe); err != nil {
		_ = os.Rename(old, u.Exe)
		return fmt.Errorf("update: install new binary: %w", err)
	}
	log.Info().Msg("update: applied, active on next launch")
	return nil
}

// CleanOld removes the binary parked by a previous Apply.
func (u *Updater) CleanOld() {
	old := u.Exe + ".old"
	if err := os.Remove(old); err == nil {
		log.Info().Str("path", old).Msg("update: removed old binary")
	}
}

// IsNewer reports whether latest is a higher X.Y.Z version than current.
// Development builds never update.
func IsNewer(latest, current string) bool {
	if current == "" || current == "dev" {
		return false
	}
	lp, cp := parseSemver(latest), parseSemver(current)
	if lp == nil || cp == nil {
		return false
	}
	for i := range 3 {
		if lp[i] != cp[i] {
			return lp[i] > cp[i]
		}
	}
	return false
}

func parseSemver(s string) []int {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return nil
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		nums[i] = n
	}
	return nums
}
