package enhance

import (
	_ "embed"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/alex-vit/hdrbright/internal/monitor"
)

const (
	classRoot          = `SYSTEM\CurrentControlSet\Control\Class\`
	driverValue        = "Driver"
	certificationValue = "HdrCertifications"
)

//go:embed certifications.yaml
var certificationsYAML []byte

type certEntry struct {
	GUID  string `yaml:"guid"`
	Label string `yaml:"label"`
}

// parseCertifications decodes a GUID -> label table.
func parseCertifications(data []byte) (map[string]string, error) {
	var entries []certEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.GUID == "" || e.Label == "" {
			continue
		}
		out[normalizeGUID(e.GUID)] = e.Label
	}
	return out, nil
}

func defaultCertifications() map[string]string {
	m, err := parseCertifications(certificationsYAML)
	if err != nil {
		log.Error().Err(err).Msg("enhance: embedded certification table is invalid")
		return map[string]string{}
	}
	return m
}

func normalizeGUID(s string) string {
	return strings.ToUpper(strings.Trim(s, "{} \x00"))
}

// HDRCertifications lists the known HDR certifications of the monitor with
// the given device interface path, in registry order. Unknown GUIDs are
// dropped; missing keys give an empty list.
func (a *Adapter) HDRCertifications(interfacePath string) []string {
	labels := []string{}
	if a.registry == nil {
		return labels
	}
	enumPath, ok := monitor.RegistryEnumPath(interfacePath)
	if !ok {
		return labels
	}
	driver, err := a.registry.ReadStrings(enumPath, driverValue)
	if err != nil || len(driver) == 0 || driver[0] == "" {
		log.Debug().Err(err).Str("key", enumPath).Msg("enhance: no driver reference")
		return labels
	}
	guids, err := a.registry.ReadStrings(classRoot+driver[0], certificationValue)
	if err != nil {
		log.Debug().Err(err).Str("driver", driver[0]).Msg("enhance: no certifications")
		return labels
	}

	seen := make(map[string]bool)
	for _, g := range guids {
		label, ok := a.certs[normalizeGUID(g)]
		if !ok || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}
