package main

type Settings struct {
	Port          int    `env:"PORT,default=8000"`
	BasePath      string `env:"BASE_PATH,default=/api"`
	LogEncoding   string `env:"LOG_ENCODING,default=console"`
	JWTSecret     string `env:"JWT_SECRET,required=true"`
	TokenTtlHours int    `env:"TOKEN_TTL_HOURS,default=720"`
	MongoURL      string `env:"MONGO_URL,required=true"`
	DBName        string `env:"DB_NAME,default=messenger"`
}
