package health

type Input struct{}

type Output struct {
	Body Response
}

type Response struct {
	Status string `json:"status" example:"OK" doc:"Health status of the service"`
	Env    string `json:"env" example:"prod" doc:"Deployment environment"`
	Uptime int64  `json:"uptimeSeconds" doc:"Seconds since the server started"`
}
