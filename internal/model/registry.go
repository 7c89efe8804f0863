package model

import "time"

// ServiceStatus is the last known health of a registered service
type ServiceStatus string

const (
	ServiceStatusUp      ServiceStatus = "UP"
	ServiceStatusDown    ServiceStatus = "DOWN"
	ServiceStatusUnknown ServiceStatus = "UNKNOWN"
)

// ServiceURLs holds the base URL of a service per environment
type ServiceURLs struct {
	Development string `json:"development,omitempty"`
	Staging     string `json:"staging,omitempty"`
	Production  string `json:"production,omitempty"`
}

// Service is an entry in the service registry
type Service struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	DisplayName   string        `json:"displayName"`
	Port          int           `json:"port"`
	HealthPath    string        `json:"healthPath"`
	Version       string        `json:"version"`
	URLs          ServiceURLs   `json:"urls"`
	Status        ServiceStatus `json:"status"`
	LastHeartbeat *time.Time    `json:"lastHeartbeat,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ServiceDefinition is the writable part of a registry entry
type ServiceDefinition struct {
	Name        string
	DisplayName string
	Port        int
	HealthPath  string
	Version     string
	URLs        ServiceURLs
}
