// Package mqtt connects the bot to an MQTT broker. Domain events are
// published under multigame/events/<type>; read-only queries arrive on
// multigame/request/<name> and are answered on
// multigame/response/<name>/<correlationId>.
package mqtt

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	boterrors "github.com/PancyStudios/MultiGameBot/pkg/errors"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	topicRoot    = "multigame"
	requestRoot  = topicRoot + "/request/"
	responseRoot = topicRoot + "/response/"

	qos           = 0
	tokenWait     = 5 * time.Second
	retryInterval = 5 * time.Second
)

// ErrUnknownRequest is answered for request names without a handler
var ErrUnknownRequest = errors.New("petición desconocida")

// Request is the envelope of an incoming query
type Request struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// Response is the envelope of an answer
type Response struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// RequestHandler answers one request name. The payload always carries the
// request name under "_topic".
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// Options configures a Broker
type Options struct {
	Host     string
	Port     string
	Username string
	Password string
	// ClientID is suffixed with a random UUID so several instances can share it
	ClientID string
}

// Broker wraps the paho client
type Broker struct {
	client   paho.Client
	clientID string

	mu       sync.RWMutex
	handlers map[string]RequestHandler
}

var (
	broker *Broker
	once   sync.Once
)

// Init initializes the global broker connection
func Init(host, port, username, password, clientID string) *Broker {
	once.Do(func() {
		broker = NewBroker(Options{Host: host, Port: port, Username: username, Password: password, ClientID: clientID})
	})
	return broker
}

// Get returns the global broker
func Get() *Broker {
	return broker
}

// NewBroker connects to the broker. The connection keeps retrying in the
// background when it is not reachable yet; the request subscription is
// renewed on every (re)connect.
func NewBroker(opts Options) *Broker {
	b := &Broker{
		clientID: opts.ClientID,
		handlers: make(map[string]RequestHandler),
	}

	co := paho.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", opts.Host, opts.Port)).
		SetClientID(fmt.Sprintf("%s_%s", opts.ClientID, uuid.New().String())).
		SetUsername(opts.Username).
		SetPassword(opts.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(retryInterval).
		SetOnConnectHandler(b.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	b.client = paho.NewClient(co)

	token := b.client.Connect()
	if !token.WaitTimeout(tokenWait) {
		logger.Warn("El broker MQTT no responde, se seguirá reintentando en segundo plano", "MQTT")
	} else if token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}
	return b
}

func (b *Broker) onConnect(c paho.Client) {
	logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", b.clientID), "MQTT")

	token := c.Subscribe(requestRoot+"+", qos, func(_ paho.Client, msg paho.Message) {
		defer boterrors.RecoverMiddleware()()
		b.dispatch(msg.Topic(), msg.Payload())
	})
	if token.WaitTimeout(tokenWait) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error suscribiendo a %s+: %v", requestRoot, token.Error()), "MQTT")
	}
}

// Destroy closes the connection
func (b *Broker) Destroy() {
	if !b.IsConnected() {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
		return
	}
	b.client.Disconnect(250)
	logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
}

// IsConnected returns true if connected to the broker
func (b *Broker) IsConnected() bool {
	return b.client != nil && b.client.IsConnected()
}

// Publish encodes payload as JSON and sends it to topic
func (b *Broker) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("codificando mensaje para %s: %w", topic, err)
	}

	token := b.client.Publish(topic, qos, false, data)
	if !token.WaitTimeout(tokenWait) {
		return fmt.Errorf("timeout publicando en %s", topic)
	}
	return token.Error()
}

// On registers the handler of a request name
func (b *Broker) On(name string, h RequestHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = h
}

func (b *Broker) handler(name string) RequestHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if h, ok := b.handlers[name]; ok {
		return h
	}
	return func(map[string]interface{}) (interface{}, error) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRequest, name)
	}
}

func (b *Broker) dispatch(topic string, raw []byte) {
	name := strings.TrimPrefix(topic, requestRoot)
	responseTopic, resp, err := handleRequest(topic, raw, b.handler(name))
	if err != nil {
		logger.Warn(fmt.Sprintf("Petición MQTT inválida en %s: %v", topic, err), "MQTT")
		return
	}
	if err := b.Publish(responseTopic, resp); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo responder en %s: %v", responseTopic, err), "MQTT")
	}
}

// handleRequest decodes a request, runs h and builds the response
func handleRequest(topic string, raw []byte, h RequestHandler) (string, Response, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return "", Response{}, err
	}
	if req.CorrelationID == "" {
		return "", Response{}, errors.New("falta correlationId")
	}

	name := strings.TrimPrefix(topic, requestRoot)
	payload, ok := req.Payload.(map[string]interface{})
	if !ok {
		payload = make(map[string]interface{})
	}
	payload["_topic"] = name

	resp := Response{CorrelationID: req.CorrelationID}
	data, err := h(payload)
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Data = data
	}
	return responseRoot + name + "/" + req.CorrelationID, resp, nil
}
