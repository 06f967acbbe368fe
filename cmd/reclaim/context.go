package main

import (
	"fmt"

	"reclaim/internal/config"
)

// commandContext lazily resolves configuration and the daemon API client so
// commands that need neither (such as config init) stay cheap.
type commandContext struct {
	serverFlag *string
	configFlag *string

	cfg     *config.Config
	cfgPath string
	client  *apiClient
}

func newCommandContext(serverFlag, configFlag *string) *commandContext {
	return &commandContext{serverFlag: serverFlag, configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, path, _, err := config.Load(c.flagValue(c.configFlag))
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.cfgPath = path
	return cfg, nil
}

func (c *commandContext) ensureClient() (*apiClient, error) {
	if c.client != nil {
		return c.client, nil
	}

	server := c.flagValue(c.serverFlag)
	token := ""
	if server == "" {
		cfg, err := c.ensureConfig()
		if err != nil {
			return nil, err
		}
		server = cfg.Paths.APIBind
		token = cfg.Paths.APIToken
	}
	if server == "" {
		return nil, fmt.Errorf("no daemon address configured; set paths.api_bind or pass --server")
	}

	c.client = newAPIClient(server, token)
	return c.client, nil
}

func (c *commandContext) flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return *flag
}
