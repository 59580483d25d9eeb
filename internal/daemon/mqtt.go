package daemon

import (
	"errors"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/embedded-iot/unified-be/configs"
	"github.com/embedded-iot/unified-be/internal/utils"
)

const (
	connectTimeout    = 10 * time.Second
	subscribeTimeout  = 5 * time.Second
	disconnectQuiesce = 1000 // milliseconds
)

var ErrConnectTimeout = errors.New("mqtt: connect timed out")

// ConnectMQTT dials the broker. onConnect runs after every (re)connect so
// subscriptions survive broker restarts with a clean session.
func ConnectMQTT(cfg configs.MQTTConfig, onConnect func(pahomqtt.Client)) (pahomqtt.Client, error) {
	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetMaxReconnectInterval(time.Minute).
		SetKeepAlive(60 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetOnConnectHandler(func(c pahomqtt.Client) {
		utils.GetLogger().Info("mqtt connected", zap.String("broker", cfg.BrokerURL))
		if onConnect != nil {
			onConnect(c)
		}
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		utils.GetLogger().Warn("mqtt connection lost", zap.Error(err))
	})

	client := pahomqtt.NewClient(opts)
	if err := awaitConnect(client, client.Connect(), connectTimeout); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.BrokerURL, err)
	}
	return client, nil
}

// awaitConnect waits for the connect token. On timeout the attempt is torn
// down so a late success cannot fire the OnConnect handler of a dropped client.
func awaitConnect(client pahomqtt.Client, token pahomqtt.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		client.Disconnect(0)
		return ErrConnectTimeout
	}
	return token.Error()
}

func DisconnectMQTT(client pahomqtt.Client) {
	if client != nil && client.IsConnected() {
		client.Disconnect(disconnectQuiesce)
	}
}
