package client

type NetworkConfig struct {
	Name        string
	DisplayName string
	APIBase     string
}

var TestnetConfig = NetworkConfig{
	Name:        "testnet",
	DisplayName: "FastSet Testnet",
	APIBase:     "https://wallet.fastset.xyz/api/",
}

// LocalConfig points at a wallet API proxy running on the developer's machine.
var LocalConfig = NetworkConfig{
	Name:        "local",
	DisplayName: "FastSet Local",
	APIBase:     "http://127.0.0.1:8080/api/",
}

// NamedNetworks Map from network name to NetworkConfig
var NamedNetworks map[string]NetworkConfig

func init() {
	NamedNetworks = make(map[string]NetworkConfig, 2)
	setNN := func(nc NetworkConfig) {
		NamedNetworks[nc.Name] = nc
	}
	setNN(TestnetConfig)
	setNN(LocalConfig)
}
