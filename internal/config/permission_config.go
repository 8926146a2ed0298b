package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

type Permission struct {
	ID       int32    `yaml:"id"`
	Name     string   `yaml:"name"`
	Resource string   `yaml:"resource"`
	Actions  []string `yaml:"actions"`
}

type RolePermission struct {
	Name        string  `yaml:"name"`
	Permissions []int32 `yaml:"permissions"`
}

type PermissionConfig struct {
	Permissions    []Permission     `yaml:"permissions"`
	RolePermission []RolePermission `yaml:"role_permissions"`
}

// yaml path : docs/permission.yaml
func LoadPermissionConfig(path string) (*PermissionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePermissionConfig(data)
}

func ParsePermissionConfig(data []byte) (*PermissionConfig, error) {
	config := &PermissionConfig{}
	err := yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	ids := make(map[int32]struct{}, len(config.Permissions))
	for _, p := range config.Permissions {
		ids[p.ID] = struct{}{}
	}
	for _, rp := range config.RolePermission {
		for _, id := range rp.Permissions {
			if _, ok := ids[id]; !ok {
				return nil, fmt.Errorf("role %s references unknown permission %d", rp.Name, id)
			}
		}
	}
	return config, nil
}

func (c *PermissionConfig) HasRole(role string) bool {
	for _, rp := range c.RolePermission {
		if rp.Name == role {
			return true
		}
	}
	return false
}

func (c *PermissionConfig) Roles() []string {
	res := make([]string, 0, len(c.RolePermission))
	for _, rp := range c.RolePermission {
		res = append(res, rp.Name)
	}
	return res
}

// Allowed 檢查 role 對 resource 是否有 action 權限
func (c *PermissionConfig) Allowed(role, resource, action string) bool {
	var granted []int32
	for _, rp := range c.RolePermission {
		if rp.Name == role {
			granted = rp.Permissions
			break
		}
	}
	for _, p := range c.Permissions {
		if p.Resource != resource || !slices.Contains(granted, p.ID) {
			continue
		}
		if slices.Contains(p.Actions, action) {
			return true
		}
	}
	return false
}
