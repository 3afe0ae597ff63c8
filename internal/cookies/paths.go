package cookies

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// storeSpec names a browser and where its cookie database may live.
// Firefox-family browsers are located through profiles.ini; Chromium-family
// browsers have fixed candidate paths.
type storeSpec struct {
	Browser     string
	CookiePaths []string
	ProfileInis []string
}

// DetectStorePath scans known browser cookie stores in priority order
// (Firefox, LibreWolf, Chrome, Chromium, Edge, Brave) and returns the first
// existing database path together with the browser name.
func DetectStorePath() (path, browser string, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("resolve home directory: %w", err)
	}
	return detectWithSpecs(storeSpecs(home))
}

func detectWithSpecs(specs []storeSpec) (string, string, error) {
	for _, spec := range specs {
		for _, iniPath := range spec.ProfileInis {
			profileDir := defaultProfileDir(iniPath)
			if profileDir == "" {
				continue
			}
			candidate := filepath.Join(profileDir, "cookies.sqlite")
			if fileExists(candidate) {
				return candidate, spec.Browser, nil
			}
		}
		for _, candidate := range spec.CookiePaths {
			if fileExists(candidate) {
				return candidate, spec.Browser, nil
			}
		}
	}
	return "", "", fmt.Errorf("no supported browser cookie store found")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

// defaultProfileDir resolves the default profile out of a Firefox-style
// profiles.ini. Modern Firefox records it as Default= in an [Install*]
// section; older profiles mark a [Profile*] section with Default=1.
func defaultProfileDir(iniPath string) string {
	f, err := os.Open(iniPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	iniDir := filepath.Dir(iniPath)
	var installDefault, profileDefault string

	var inInstall, inProfile, isDefault bool
	var sectionPath string
	flush := func() {
		if inProfile && isDefault && profileDefault == "" {
			profileDefault = sectionPath
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			flush()
			section := strings.Trim(line, "[]")
			inInstall = strings.HasPrefix(section, "Install")
			inProfile = strings.HasPrefix(section, "Profile")
			sectionPath, isDefault = "", false
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		switch {
		case inInstall && key == "Default" && installDefault == "":
			installDefault = filepath.Join(iniDir, filepath.FromSlash(val))
		case inProfile && key == "Path":
			sectionPath = filepath.Join(iniDir, filepath.FromSlash(val))
		case inProfile && key == "Default" && val == "1":
			isDefault = true
		}
	}
	flush()

	if installDefault != "" {
		return installDefault
	}
	return profileDefault
}

func storeSpecs(home string) []storeSpec {
	switch runtime.GOOS {
	case "darwin":
		appSupport := filepath.Join(home, "Library", "Application Support")
		return []storeSpec{
			{Browser: "Firefox", ProfileInis: []string{filepath.Join(appSupport, "Firefox", "profiles.ini")}},
			{Browser: "LibreWolf", ProfileInis: []string{filepath.Join(appSupport, "librewolf", "profiles.ini")}},
			{Browser: "Chrome", CookiePaths: chromiumCandidates(filepath.Join(appSupport, "Google", "Chrome", "Default"))},
			{Browser: "Chromium", CookiePaths: chromiumCandidates(filepath.Join(appSupport, "Chromium", "Default"))},
			{Browser: "Edge", CookiePaths: chromiumCandidates(filepath.Join(appSupport, "Microsoft Edge", "Default"))},
			{Browser: "Brave", CookiePaths: chromiumCandidates(filepath.Join(appSupport, "BraveSoftware", "Brave-Browser", "Default"))},
		}
	case "windows":
		local := os.Getenv("LOCALAPPDATA")
		roaming := os.Getenv("APPDATA")
		return []storeSpec{
			{Browser: "Firefox", ProfileInis: []string{filepath.Join(roaming, "Mozilla", "Firefox", "profiles.ini")}},
			{Browser: "Chrome", CookiePaths: chromiumCandidates(filepath.Join(local, "Google", "Chrome", "User Data", "Default"))},
			{Browser: "Edge", CookiePaths: chromiumCandidates(filepath.Join(local, "Microsoft", "Edge", "User Data", "Default"))},
			{Browser: "Brave", CookiePaths: chromiumCandidates(filepath.Join(local, "BraveSoftware", "Brave-Browser", "User Data", "Default"))},
		}
	default:
		config := filepath.Join(home, ".config")
		return []storeSpec{
			{Browser: "Firefox", ProfileInis: []string{
				filepath.Join(home, ".mozilla", "firefox", "profiles.ini"),
				filepath.Join(home, "snap", "firefox", "common", ".mozilla", "firefox", "profiles.ini"),
			}},
			{Browser: "LibreWolf", ProfileInis: []string{filepath.Join(home, ".librewolf", "profiles.ini")}},
			{Browser: "Chrome", CookiePaths: chromiumCandidates(filepath.Join(config, "google-chrome", "Default"))},
			{Browser: "Chromium", CookiePaths: chromiumCandidates(filepath.Join(config, "chromium", "Default"))},
			{Browser: "Edge", CookiePaths: chromiumCandidates(filepath.Join(config, "microsoft-edge", "Default"))},
			{Browser: "Brave", CookiePaths: chromiumCandidates(filepath.Join(config, "BraveSoftware", "Brave-Browser", "Default"))},
		}
	}
}

// chromiumCandidates lists the cookie DB locations a Chromium profile may
// use. Newer versions moved the file under Network/.
func chromiumCandidates(profileDir string) []string {
	return []string{
		filepath.Join(profileDir, "Network", "Cookies"),
		filepath.Join(profileDir, "Cookies"),
	}
}
