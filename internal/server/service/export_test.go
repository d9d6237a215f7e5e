package service

// This file is only for test purpose and is only loaded by test framework.

// Write copies src into a new file at path for test purpose.
var Write = write
