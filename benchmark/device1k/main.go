package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

var maxDevices int = 2000
var httpHostPort string = "127.0.0.1:1080"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

type simulatedDevice struct {
	name    string
	serial  string
	vendor  string
	model   string
	percent int
}

func main() {
	devices := make([]simulatedDevice, maxDevices)
	for i := 0; i < maxDevices; i++ {
		devices[i] = simulatedDevice{
			name:    fmt.Sprintf("Bench Earbuds %04d", i),
			serial:  uuid.NewString(),
			vendor:  "Benchworks",
			model:   fmt.Sprintf("BE-%04d", i),
			percent: 20 + rnd.Intn(80),
		}
	}
	fmt.Printf("generated %v simulated devices\n", maxDevices)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := 0; i < maxDevices; i++ {
		i := i
		wg.Add(1)
		go func() {
			postAdvertisement(&devices[i])
			fmt.Printf("\rposted first advertisement for device %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rposted first advertisement for %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := 0; i < maxDevices; i++ {
		i := i
		wg.Add(1)
		go func() {
			doAction(&devices[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices*3)/usedTime.Seconds(),
	)
}

// advertisementHex encodes one proximity-pairing record whose three battery
// slots drain together.
func advertisementHex(percent int) string {
	payload := make([]byte, 25)
	payload[11] = byte(percent)
	payload[12] = byte(min(percent+rnd.Intn(5), 100))
	payload[13] = byte(min(percent+rnd.Intn(20), 100))

	data := []byte{0x4C, 0x00, 0x07, 0x19}
	return hex.EncodeToString(append(data, payload...))
}

func postAdvertisement(device *simulatedDevice) {
	payload := map[string]any{
		"name":              device.name,
		"manufacturer_data": advertisementHex(device.percent),
		"model":             device.model,
		"vendor":            device.vendor,
		"serial":            device.serial,
	}

	jsonData, _ := json.Marshal(payload)
	resp, err := http.Post(fmt.Sprintf("http://%s/scan/advertisements", httpHostPort), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
}

func doAction(device *simulatedDevice) {
	actions := []func(){
		genDrainAction(device),
		genListDevicesAction(),
		genSystemReadingAction(),
	}
	actionNames := []string{
		"Drain",
		"ListDevices",
		"SystemReading",
	}
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for device %v", actionNames[index], device.serial)
		time.Sleep(time.Duration(100+rnd.Int31n(1000)) * time.Millisecond)
	}
}

func genDrainAction(device *simulatedDevice) func() {
	return func() {
		if device.percent > 1 {
			device.percent -= 1 + rnd.Intn(3)
			if device.percent < 1 {
				device.percent = 1
			}
		}
		postAdvertisement(device)
	}
}

func genListDevicesAction() func() {
	return func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/devices", httpHostPort))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp)
		}
	}
}

func genSystemReadingAction() func() {
	return func() {
		payload := map[string]any{
			"percent": 20 + rnd.Intn(80),
			"state":   "battery",
			"mode":    "normal",
		}
		jsonData, _ := json.Marshal(payload)
		resp, err := http.Post(fmt.Sprintf("http://%s/system/readings", httpHostPort), "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp)
		}
	}
}
