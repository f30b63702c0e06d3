package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nandanugg/stickerwalk/config"
)

type positionMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

type waypoint struct {
	Lat, Lon float64
	Label    string
}

// walk visits every area followed by its stickers, in file order.
func walk(pois *config.POIFile) []waypoint {
	var out []waypoint
	for _, a := range pois.Areas {
		out = append(out, waypoint{Lat: a.Lat, Lon: a.Lon, Label: "area " + a.AreaName})
		for _, s := range pois.Stickers {
			if s.AreaName == a.AreaName {
				out = append(out, waypoint{
					Lat:   s.Lat,
					Lon:   s.Lon,
					Label: fmt.Sprintf("sticker %s/%d", s.AreaName, s.StickerIndex),
				})
			}
		}
	}
	return out
}

// ~1m of drift per 0.00001 degrees
func jitter(v, meters float64) float64 {
	return v + (rand.Float64()-0.5)*2*meters*0.00001
}

func publish(client mqtt.Client, topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	token := client.Publish(topic, 1, false, payload)
	token.Wait()
	return token.Error()
}

var rootCmd = &cobra.Command{
	Use:   "publisher",
	Short: "Replay a walk through the configured POIs over MQTT",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		config.SetupLogging(cfg)

		poiFile, _ := cmd.Flags().GetString("pois")
		if poiFile == "" {
			poiFile = cfg.POIFile
		}
		device, _ := cmd.Flags().GetString("device")
		interval, _ := cmd.Flags().GetDuration("interval")
		drift, _ := cmd.Flags().GetFloat64("jitter")
		dwell, _ := cmd.Flags().GetInt("dwell")
		loop, _ := cmd.Flags().GetBool("loop")

		pois, err := config.LoadPOIs(poiFile)
		if err != nil {
			return err
		}
		route := walk(pois)
		if len(route) == 0 {
			return fmt.Errorf("%s has no points to walk", poiFile)
		}

		client, err := config.NewMQTT(cfg, "stickerwalk-mock-publisher", nil)
		if err != nil {
			return err
		}
		defer client.Disconnect(250)

		positionTopic := fmt.Sprintf("stickerwalk/device/%s/position", device)
		statusTopic := fmt.Sprintf("stickerwalk/device/%s/status", device)

		if err := publish(client, statusTopic, map[string]string{"status": "running"}); err != nil {
			return fmt.Errorf("publish status: %w", err)
		}
		log.WithField("topic", statusTopic).Info("provider reported running")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			for _, wp := range route {
				for i := 0; i < dwell; i++ {
					<-ticker.C
					msg := positionMessage{
						Latitude:  jitter(wp.Lat, drift),
						Longitude: jitter(wp.Lon, drift),
						Accuracy:  drift,
						Timestamp: time.Now().UnixMilli(),
					}
					if err := publish(client, positionTopic, msg); err != nil {
						log.WithError(err).Warn("publish position")
						continue
					}
					log.WithFields(log.Fields{"at": wp.Label, "lat": msg.Latitude, "lon": msg.Longitude}).Info("published")
				}
			}
			if !loop {
				break
			}
		}

		return publish(client, statusTopic, map[string]string{"status": "stopped"})
	},
}

func main() {
	rootCmd.Flags().String("pois", "", "POI file to walk (defaults to POI_FILE)")
	rootCmd.Flags().String("device", "phone-1", "device id used in the topic")
	rootCmd.Flags().Duration("interval", time.Second, "delay between samples")
	rootCmd.Flags().Float64("jitter", 2, "random drift in meters")
	rootCmd.Flags().Int("dwell", 3, "samples published at each point")
	rootCmd.Flags().Bool("loop", false, "repeat the walk until interrupted")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
