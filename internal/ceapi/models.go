package ceapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp accepts both epoch-seconds numbers and RFC 3339 strings, which is
// how the service mixes its datetime encodings.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse timestamp %q: %w", s, err)
		}
		t.Time = parsed.UTC()
		return nil
	}
	// Epoch seconds, possibly fractional.
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("parse timestamp %s: %w", b, err)
	}
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	t.Time = time.Unix(sec, nsec).UTC()
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// Login is the response from the Login endpoint. Created captures when the
// token was issued so expiry can be computed locally.
type Login struct {
	Status     string `json:"status"`
	Err        string `json:"error,omitempty"`
	ExpireMins int    `json:"expireMins"`
	JWT        string `json:"jwt"`

	Created time.Time `json:"-"`
}

// Expires returns the instant this login stops being valid.
func (l *Login) Expires() time.Time {
	return l.Created.Add(time.Duration(l.ExpireMins) * time.Minute)
}

// Expired reports whether the login is past its expiry at the given instant.
func (l *Login) Expired(now time.Time) bool {
	return now.After(l.Expires())
}

// LogSession is the response from LogSessionStart.
type LogSession struct {
	Status         string `json:"status"`
	InstallationID int64  `json:"installationId"`
	ArchiveSaved   bool   `json:"archiveSaved"`
}

// ConnectionStatus reports monitor connectivity.
type ConnectionStatus struct {
	Status         string    `json:"status"`
	InstallationID int64     `json:"installationId"`
	Connected      bool      `json:"connected"`
	Since          Timestamp `json:"since"`
}

// Device is a single monitored device within an installation.
type Device struct {
	ID                  int64    `json:"deviceId"`
	RefName             string   `json:"refName"`
	Name                string   `json:"displayName"`
	DeviceType          string   `json:"deviceType"`
	Manufacturer        string   `json:"deviceManufacturer,omitempty"`
	ModelName           string   `json:"deviceModelName,omitempty"`
	SerialNumber        string   `json:"deviceSerialNumber,omitempty"`
	StorageDevice       bool     `json:"storageDevice"`
	SupplierDevice      bool     `json:"supplierDevice"`
	ConsumerDevice      bool     `json:"consumerDevice"`
	Status              string   `json:"status"`
	MaxPowerSupply      *int     `json:"maxPowerSupply,omitempty"`
	MaxPowerConsumption *int     `json:"maxPowerConsumption,omitempty"`
	Category            string   `json:"category"`
	Assets              []string `json:"assets,omitempty"`
}

// PowerManagementConfigChannel maps a measurement channel to a phase.
type PowerManagementConfigChannel struct {
	Channel int    `json:"ch"`
	Phase   string `json:"ph"`
}

// PowerManagementConfig configures power management for one device.
type PowerManagementConfig struct {
	Name     string                         `json:"name"`
	Channels []PowerManagementConfigChannel `json:"channels"`
}

// PowerManagement holds the installation's power management configuration.
type PowerManagement struct {
	Config []PowerManagementConfig `json:"config"`
}

// Installation describes a monitored site and its devices.
type Installation struct {
	ID       int64  `json:"installationId"`
	Name     string `json:"installationName"`
	Status   string `json:"status"`
	Source   string `json:"source"`
	Role     string `json:"role"`
	ReadOnly bool   `json:"readOnly"`
	DmgID    int64  `json:"dmgId"`

	Tags []string `json:"tags"`

	MQTTAccountKura string `json:"mqttAccountKura"`
	MQTTBrokerEMS   string `json:"mqttBrokerEms"`

	Timezone      string `json:"timezone"`
	StreetAddress string `json:"streetAddress"`
	Locality      string `json:"locality"`
	State         string `json:"state"`
	Postcode      string `json:"postcode"`

	ReviewStatus string `json:"reviewStatus"`
	NMI          string `json:"nmi"`
	Phase        int    `json:"phase"`
	OrgID        int64  `json:"orgId"`
	Brand        string `json:"brand"`

	TariffPlanID       int64     `json:"tariffPlanId"`
	TariffPlanAccepted Timestamp `json:"tariffPlanAccepted"`

	Devices         []Device        `json:"devices"`
	PowerManagement PowerManagement `json:"pm"`
}
