package naptime

const Version = "0.1.0"
