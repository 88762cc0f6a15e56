package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/dimitzel3/fuel-log/internal/models"
	paho "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// The simulator plays the role of a fleet of fuel-pump terminals: it
// publishes refuel events on the MQTT topic the server ingests from.

var vehicles = []string{"ABC-123", "ABC-456", "ABC-789"}

var drivers = []string{
	"J. Doe",
	"M. Papadopoulos",
	"A. Schmidt",
	"K. Ivanov",
}

var fuelTypes = []string{"unleaded", "diesel", "adblue"}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func randomEvent(odometers map[string]float64) models.RefuelInput {
	vehicle := vehicles[rand.Intn(len(vehicles))]
	liters := 20 + rand.Float64()*40
	odometers[vehicle] += 150 + rand.Float64()*600
	cost := liters * (1.5 + rand.Float64()*0.4)

	return models.RefuelInput{
		Vehicle:          vehicle,
		DriverName:       drivers[rand.Intn(len(drivers))],
		FuelType:         fuelTypes[rand.Intn(len(fuelTypes))],
		Liters:           fmt.Sprintf("%.2f", liters),
		OdometerKM:       fmt.Sprintf("%.0f", odometers[vehicle]),
		FuelCost:         fmt.Sprintf("%.2f", cost),
		ReceiptInvoiceNo: fmt.Sprintf("INV-%06d", rand.Intn(1000000)),
	}
}

func main() {
	broker := getenv("MQTT_BROKER", "tcp://localhost:1883")
	topic := getenv("MQTT_TOPIC", "fleet/refuels")
	count, err := strconv.Atoi(getenv("SIM_EVENTS", "20"))
	if err != nil || count <= 0 {
		count = 20
	}
	interval, err := time.ParseDuration(getenv("SIM_INTERVAL", "2s"))
	if err != nil {
		interval = 2 * time.Second
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("fuel-log-simulator")
	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Fatal("Failed to connect to broker")
	}
	defer client.Disconnect(250)

	log.WithFields(log.Fields{
		"broker": broker,
		"topic":  topic,
		"events": count,
	}).Info("Refuel simulation started")

	odometers := map[string]float64{}
	for _, v := range vehicles {
		odometers[v] = 100000 + rand.Float64()*50000
	}

	for i := 0; i < count; i++ {
		event := randomEvent(odometers)
		payload, err := json.Marshal(event)
		if err != nil {
			log.WithError(err).Error("Failed to marshal refuel event")
			continue
		}
		if token := client.Publish(topic, 1, false, payload); token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).Error("Failed to publish refuel event")
			continue
		}
		log.WithFields(log.Fields{
			"vehicle": event.Vehicle,
			"liters":  event.Liters,
		}).Info("Published refuel event")
		time.Sleep(interval)
	}
}
