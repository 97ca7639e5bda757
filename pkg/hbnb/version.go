package hbnb

const Version = "0.1.0"
