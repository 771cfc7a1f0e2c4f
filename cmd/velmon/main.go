package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/velplan/pkg/comm/mqtt"
	fx "github.com/robotalks/velplan/pkg/framework"
	"github.com/robotalks/velplan/pkg/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/velplan/"
	filter  = "#"
)

func init() {
	if val := os.Getenv("VELPLAN_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&filter, "topic", filter, "Topic filter under the prefix.")
}

func logMessage(topic string, payload []byte) {
	if strings.HasSuffix(topic, mqtt.TopicMeta) {
		log.Printf("%s: %s", topic, string(payload))
		return
	}
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		log.Printf("%s: bad message: %v", topic, err)
		return
	}
	msg, err := typed.Decode()
	if err != nil {
		log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
		return
	}
	switch m := msg.(type) {
	case *msgs.SpeedCommand:
		log.Printf("%s: [SpeedCommand] profile=%s t=%.3f v=%.4f", topic, m.ProfileId, m.Elapsed, m.Speed)
	case *msgs.Profile:
		log.Printf("%s: #%d [Profile] %s %s, %d points", topic, typed.Sequence, m.ProfileId, m.Mode, len(m.Points))
	default:
		log.Printf("%s: #%d [%s] %s", topic, typed.Sequence, msgs.TypeName(msg),
			msg.(msgs.SerializableMessage).Serializable().String())
	}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q.Sub(filter, logMessage)
	if err := q.Connect(); err != nil {
		log.Fatalln(err)
	}
	defer q.Close()

	runner := fx.NewRunner().HandleSignals()
	<-runner.Context.Done()
	if err := runner.Context.Err(); err != context.Canceled {
		log.Println(err)
	}
}
