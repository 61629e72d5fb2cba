package models

import "fmt"

// Credentials is what a successful provisioning run hands back to the
// requester. The password is shown exactly once and never stored.
type Credentials struct {
	DBHost           string `json:"db_host"`
	DBPort           int    `json:"db_port"`
	DBName           string `json:"db_name"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	ConnectionString string `json:"connection_string"`
	JDBCURL          string `json:"jdbc_url"`
}

// NewCredentials fills in the two connection-string fields from the
// scalar ones.
func NewCredentials(host string, port int, dbName, username, password string) *Credentials {
	return &Credentials{
		DBHost:   host,
		DBPort:   port,
		DBName:   dbName,
		Username: username,
		Password: password,
		ConnectionString: fmt.Sprintf(
			"mysql://%s:%s@%s:%d/%s?allowPublicKeyRetrieval=true&useSSL=false",
			username, password, host, port, dbName),
		JDBCURL: fmt.Sprintf(
			"jdbc:mysql://%s:%d/%s?allowPublicKeyRetrieval=true&useSSL=false&user=%s&password=%s",
			host, port, dbName, username, password),
	}
}
