package main

const VERSION = "0.2.0"
