// Package rfid reads MFRC522 tags and delivers debounced UID strings.
package rfid

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/mfrc522"
	"periph.io/x/host/v3"
)

// Settings configures the reader hardware and polling behaviour. It is
// decoded from the rfid.reader settings map of the config file.
type Settings struct {
	SPIPort        string `mapstructure:"spi_port"`
	ResetPin       string `mapstructure:"reset_pin" default:"GPIO25" validate:"required"`
	IRQPin         string `mapstructure:"irq_pin"`
	PollIntervalMs int    `mapstructure:"poll_interval_ms" default:"500" validate:"gte=50"`
	CooldownSec    int    `mapstructure:"cooldown_sec" default:"3" validate:"gte=0"`
}

// ParseSettings decodes, defaults and validates a reader settings map.
func ParseSettings(settings map[string]any) (Settings, error) {
	var s Settings
	if err := mapstructure.Decode(settings, &s); err != nil {
		return s, errors.Wrap(err, "failed to decode reader settings")
	}
	if err := defaults.Set(&s); err != nil {
		return s, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(s); err != nil {
		return s, errors.Wrap(err, "reader settings validation failed")
	}
	return s, nil
}

// uidSource is the hardware read operation, separated so the poll loop can be
// driven without a physical reader in tests.
type uidSource interface {
	ReadUID(timeout time.Duration) ([]byte, error)
}

// Reader polls an MFRC522 on a background goroutine and delivers debounced
// UID hex strings on Tags.
type Reader struct {
	source   uidSource
	debounce *Debouncer
	interval time.Duration

	tags chan string
	stop chan struct{}
	done chan struct{}
}

// Open initializes the MFRC522 on the configured SPI port and returns a
// reader. Call Start to begin delivering tags.
func Open(s Settings) (*Reader, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize periph host")
	}

	port, err := spireg.Open(s.SPIPort)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SPI port")
	}

	resetPin := gpioreg.ByName(s.ResetPin)
	if resetPin == nil {
		return nil, errors.Newf("unknown reset pin %q", s.ResetPin)
	}

	// Without an IRQ pin the driver falls back to pure polling, which the
	// poll loop does anyway.
	var irqPin gpio.PinIn
	if s.IRQPin != "" {
		if irqPin = gpioreg.ByName(s.IRQPin); irqPin == nil {
			return nil, errors.Newf("unknown irq pin %q", s.IRQPin)
		}
	}

	dev, err := mfrc522.NewSPI(port, resetPin, irqPin)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize mfrc522")
	}

	zlog.Info().Str("spi_port", s.SPIPort).Str("reset_pin", s.ResetPin).Msg("rfid: reader initialized")
	return newReader(dev, s), nil
}

func newReader(source uidSource, s Settings) *Reader {
	return &Reader{
		source:   source,
		debounce: NewDebouncer(time.Duration(s.CooldownSec) * time.Second),
		interval: time.Duration(s.PollIntervalMs) * time.Millisecond,
		tags:     make(chan string, 8),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Tags delivers debounced UID hex strings.
func (r *Reader) Tags() <-chan string {
	return r.tags
}

// Start launches the background polling goroutine.
func (r *Reader) Start() {
	go r.pollLoop()
}

// Stop signals the polling goroutine and waits for it to exit.
func (r *Reader) Stop() {
	close(r.stop)
	<-r.done
}

func (r *Reader) pollLoop() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			uid, err := r.source.ReadUID(r.interval)
			if err != nil {
				// No tag in the field, or a transient hardware error.
				continue
			}
			hexUID := UIDToHex(uid)
			if !r.debounce.Pass(hexUID) {
				continue
			}
			zlog.Debug().Str("uid", hexUID).Msg("rfid: tag detected")
			select {
			case r.tags <- hexUID:
			default:
				// Control loop is behind; drop rather than block the poller.
			}
		}
	}
}
