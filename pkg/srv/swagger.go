/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package srv

// swaggerJSON describes the REST API. It is parsed at startup and served
// at /api/swagger.json.
const swaggerJSON = `{
  "swagger": "2.0",
  "info": {
    "title": "go-netsdr API",
    "description": "RESTful APIs to control RFSPACE NetSDR receivers",
    "version": "1.0.0"
  },
  "basePath": "/api",
  "schemes": ["http"],
  "consumes": ["application/json"],
  "produces": ["application/json"],
  "paths": {
    "/receivers": {
      "get": {
        "summary": "List the connected receivers and their run state",
        "responses": {"200": {"description": "receiver list"}}
      }
    },
    "/devices": {
      "get": {
        "summary": "List every unit discovery has ever recorded",
        "responses": {"200": {"description": "unit list"}}
      }
    },
    "/discover": {
      "post": {
        "summary": "Run a discovery pass and record the units that answered",
        "responses": {
          "200": {"description": "units that answered this pass"},
          "502": {"description": "discovery pass failed"}
        }
      }
    },
    "/receivers/{receiver}/start": {
      "parameters": [{"name": "receiver", "in": "path", "required": true, "type": "string"}],
      "post": {
        "summary": "Put the receiver into the run state",
        "responses": {
          "200": {"description": "running"},
          "404": {"description": "receiver not connected"},
          "502": {"description": "unit did not acknowledge"}
        }
      }
    },
    "/receivers/{receiver}/stop": {
      "parameters": [{"name": "receiver", "in": "path", "required": true, "type": "string"}],
      "post": {
        "summary": "Put the receiver into the idle state",
        "responses": {
          "200": {"description": "stopped"},
          "404": {"description": "receiver not connected"},
          "502": {"description": "unit did not acknowledge"}
        }
      }
    },
    "/receivers/{receiver}/frequency": {
      "parameters": [
        {"name": "receiver", "in": "path", "required": true, "type": "string"},
        {"name": "chan", "in": "query", "type": "integer", "default": 0}
      ],
      "get": {
        "summary": "Read the applied center frequency, in Hz",
        "responses": {
          "200": {"description": "applied frequency"},
          "404": {"description": "receiver not connected"},
          "502": {"description": "unit did not answer"}
        }
      },
      "put": {
        "summary": "Tune the receiver and report the applied frequency",
        "responses": {
          "200": {"description": "applied frequency"},
          "400": {"description": "bad channel or body"},
          "404": {"description": "receiver not connected"}
        }
      }
    },
    "/receivers/{receiver}/rate": {
      "parameters": [{"name": "receiver", "in": "path", "required": true, "type": "string"}],
      "get": {
        "summary": "Read the configured sample rate, in Hz",
        "responses": {"200": {"description": "configured rate"}}
      },
      "put": {
        "summary": "Change the sample rate, refused while streaming",
        "responses": {
          "200": {"description": "applied rate"},
          "409": {"description": "receiver is streaming"},
          "502": {"description": "unit did not answer"}
        }
      }
    },
    "/receivers/{receiver}/rates": {
      "parameters": [{"name": "receiver", "in": "path", "required": true, "type": "string"}],
      "get": {
        "summary": "List the sample rates the hardware can produce",
        "responses": {"200": {"description": "rate list"}}
      }
    },
    "/receivers/{receiver}/gain": {
      "parameters": [
        {"name": "receiver", "in": "path", "required": true, "type": "string"},
        {"name": "chan", "in": "query", "type": "integer", "default": 0}
      ],
      "get": {
        "summary": "Read the applied attenuation, in dB",
        "responses": {
          "200": {"description": "applied gain"},
          "502": {"description": "unit did not answer"}
        }
      },
      "put": {
        "summary": "Set the attenuator and report the applied gain",
        "responses": {
          "200": {"description": "applied gain"},
          "400": {"description": "bad channel or body"}
        }
      }
    },
    "/receivers/{receiver}/bandwidth": {
      "parameters": [
        {"name": "receiver", "in": "path", "required": true, "type": "string"},
        {"name": "chan", "in": "query", "type": "integer", "default": 0}
      ],
      "put": {
        "summary": "Select the RF filter mode, 0 for automatic selection",
        "responses": {
          "200": {"description": "applied filter mode"},
          "400": {"description": "bad channel or body"}
        }
      }
    },
    "/receivers/{receiver}/info": {
      "parameters": [{"name": "receiver", "in": "path", "required": true, "type": "string"}],
      "get": {
        "summary": "Read the identification collected at connect time",
        "responses": {"200": {"description": "unit identification"}}
      }
    },
    "/receivers/{receiver}/persist": {
      "parameters": [{"name": "receiver", "in": "path", "required": true, "type": "string"}],
      "post": {
        "summary": "Start capturing samples to a fresh file in the given directory",
        "responses": {
          "200": {"description": "capture file opened"},
          "400": {"description": "missing directory"}
        }
      }
    },
    "/receivers/{receiver}/flush": {
      "parameters": [{"name": "receiver", "in": "path", "required": true, "type": "string"}],
      "post": {
        "summary": "Close the capture file and discard samples again",
        "responses": {"200": {"description": "capture closed"}}
      }
    }
  }
}`
